package client

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"

	"github.com/julienschmidt/httprouter"
)

// fakeWithings implements just enough of the Withings token endpoint for
// the authorizer tests.
type fakeWithings struct {
	srv *httptest.Server

	tokenRequests []url.Values

	// Response knobs, inspected per request.
	status       int64
	errorMessage string
	body         string
	tokenCounter int
}

func newFakeWithings() *fakeWithings {
	router := httprouter.New()
	f := &fakeWithings{}
	f.srv = httptest.NewServer(router)

	router.POST("/v2/oauth2", func(rw http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		panicIf(r.ParseForm())
		f.tokenRequests = append(f.tokenRequests, r.PostForm)

		rw.Header().Set("Content-Type", "application/json")

		if f.status != 0 {
			fmt.Fprintf(rw, `{"status": %d, "error": %q}`, f.status, f.errorMessage)
			return
		}

		body := f.body
		if body == "" {
			f.tokenCounter++
			body = fmt.Sprintf(`{
				"userid": 42,
				"access_token": "access-%d",
				"refresh_token": "refresh-%d",
				"scope": "user.info,user.metrics",
				"expires_in": 10800,
				"token_type": "Bearer"
			}`, f.tokenCounter, f.tokenCounter)
		}
		fmt.Fprintf(rw, `{"status": 0, "body": %s}`, body)
	})

	return f
}

func (f *fakeWithings) URL() string {
	return f.srv.URL + "/"
}

func (f *fakeWithings) Close() {
	f.srv.Close()
}

func panicIf(err error) {
	if err != nil {
		panic(err)
	}
}
