package api

import "sort"

// Endpoints of the Withings service API, relative to BaseURL.
const (
	endpointMeasure   = "measure"
	endpointMeasureV2 = "v2/measure"
	endpointHeartV2   = "v2/heart"
	endpointSleepV2   = "v2/sleep"
)

// ActivityFields are the data fields accepted by the getactivity action.
var ActivityFields = []string{
	"steps", "distance", "elevation", "soft", "moderate", "intense",
	"active", "calories", "totalcalories", "hr_average", "hr_min", "hr_max",
	"hr_zone_0", "hr_zone_1", "hr_zone_2", "hr_zone_3",
}

// IntradayActivityFields are the data fields accepted by the
// getintradayactivity action.
var IntradayActivityFields = []string{
	"steps", "elevation", "calories", "distance", "duration",
	"heart_rate", "spo2_auto",
}

// WorkoutFields are the data fields accepted by the getworkouts action.
var WorkoutFields = []string{
	"calories", "intensity", "manual_distance", "manual_calories",
	"hr_average", "hr_min", "hr_max", "hr_zone_0", "hr_zone_1",
	"hr_zone_2", "hr_zone_3", "pause_duration", "algo_pause_duration",
	"spo2_average", "steps", "distance", "elevation", "pool_laps",
	"strokes", "pool_length",
}

// SleepFields are the data fields accepted by the sleep get action.
var SleepFields = []string{
	"hr", "rr", "snoring", "sdnn_1", "rmssd", "mvt_score",
}

// SleepSummaryFields are the data fields accepted by the getsummary action.
var SleepSummaryFields = []string{
	"nb_rem_episodes", "sleep_efficiency", "sleep_latency",
	"total_sleep_time", "total_timeinbed", "wakeup_latency", "waso",
	"apnea_hypopnea_index", "breathing_disturbances_intensity",
	"asleepduration", "deepsleepduration", "durationtosleep",
	"durationtowakeup", "hr_average", "hr_max", "hr_min",
	"lightsleepduration", "mvt_active_duration", "mvt_score_avg",
	"night_events", "out_of_bed_count", "remsleepduration",
	"rr_average", "rr_max", "rr_min", "sleep_score", "snoring",
	"snoringepisodecount", "wakeupcount", "wakeupduration",
}

// MeasTypes maps measure type names to their Withings codes.
var MeasTypes = map[string]int{
	"weight":                   1,
	"height":                   4,
	"fat_free_mass":            5,
	"fat_ratio":                6,
	"fat_mass_weight":          8,
	"diastolic_blood_pressure": 9,
	"systolic_blood_pressure":  10,
	"heart_pulse":              11,
	"temperature":              12,
	"spo2":                     54,
	"body_temperature":         71,
	"skin_temperature":         73,
	"muscle_mass":              76,
	"hydration":                77,
	"bone_mass":                88,
	"pulse_wave_velocity":      91,
	"vo2max":                   123,
	"atrial_fibrillation":      130,
	"qrs_interval":             135,
	"pr_interval":              136,
	"qt_interval":              137,
	"corrected_qt_interval":    138,
	"electrodermal_activity":   168,
}

// measTypeCodes returns all known measure type codes in ascending order.
func measTypeCodes() []int {
	codes := make([]int, 0, len(MeasTypes))
	for _, code := range MeasTypes {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}
