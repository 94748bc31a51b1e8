package state

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gravitational/trace"
	jsoniter "github.com/json-iterator/go"
)

const userParamsFile = "user_params.json"

// userParams is the on-disk representation of Credentials. The field set and
// the Unix-seconds expiration match the user_params.json contract.
type userParams struct {
	UserID         string `json:"userid"`
	AccessToken    string `json:"access_token"`
	RefreshToken   string `json:"refresh_token"`
	Scope          string `json:"scope"`
	TokenType      string `json:"token_type"`
	ExpirationTime int64  `json:"expiration_time"`
	Demo           bool   `json:"demo"`
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NB: racy, does not use file-locking or similar
type fileState struct {
	filename string
}

// NewFileState returns a State persisting credentials to the given file.
func NewFileState(filename string) State {
	return &fileState{filename: filename}
}

// NewUserFileState returns a State persisting credentials to
// user_<id>/user_params.json under the given data directory. The user
// directory is created on the first write.
func NewUserFileState(dataDir string, userID string) State {
	return &fileState{filename: filepath.Join(dataDir, "user_"+userID, userParamsFile)}
}

func (f *fileState) GetCredentials(_ context.Context) (*Credentials, error) {
	payload, err := os.ReadFile(f.filename)
	if err != nil {
		return nil, trace.ConvertSystemError(err)
	}

	var params userParams
	err = json.Unmarshal(payload, &params)
	if err != nil {
		return nil, trace.Wrap(err)
	} else if params.AccessToken == "" {
		return nil, trace.NotFound("stored state does not contain `access_token`")
	} else if params.RefreshToken == "" {
		return nil, trace.NotFound("stored state does not contain `refresh_token`")
	} else if params.ExpirationTime == 0 {
		return nil, trace.NotFound("stored state does not contain `expiration_time`")
	}

	return &Credentials{
		UserID:       params.UserID,
		AccessToken:  params.AccessToken,
		RefreshToken: params.RefreshToken,
		TokenType:    params.TokenType,
		Scope:        params.Scope,
		ExpiresAt:    time.Unix(params.ExpirationTime, 0),
		Demo:         params.Demo,
	}, nil
}

func (f *fileState) PutCredentials(_ context.Context, creds *Credentials) error {
	params := userParams{
		UserID:         creds.UserID,
		AccessToken:    creds.AccessToken,
		RefreshToken:   creds.RefreshToken,
		Scope:          creds.Scope,
		TokenType:      creds.TokenType,
		ExpirationTime: creds.ExpiresAt.Unix(),
		Demo:           creds.Demo,
	}

	payload, err := json.MarshalIndent(&params, "", "    ")
	if err != nil {
		return trace.Wrap(err)
	}

	if err := os.MkdirAll(filepath.Dir(f.filename), 0700); err != nil {
		return trace.ConvertSystemError(err)
	}

	return trace.ConvertSystemError(os.WriteFile(f.filename, payload, 0600))
}
