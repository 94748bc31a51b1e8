package main

// Version is the semver of this build.
const Version = "1.0.0"
