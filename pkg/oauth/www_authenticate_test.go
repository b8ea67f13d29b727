package oauth

import (
	"net/http"
	"testing"
)

func TestParseWWWAuthenticate(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    *AuthChallenge
		wantErr bool
	}{
		{
			name:   "simple bearer",
			header: "Bearer",
			want: &AuthChallenge{
				Scheme: "Bearer",
			},
		},
		{
			name:   "bearer with realm and scope",
			header: `Bearer realm="api", scope="statistics advcampaigns"`,
			want: &AuthChallenge{
				Scheme: "Bearer",
				Realm:  "api",
				Scope:  "statistics advcampaigns",
			},
		},
		{
			name:   "bearer with error",
			header: `Bearer error="invalid_token", error_description="The access token expired"`,
			want: &AuthChallenge{
				Scheme:           "Bearer",
				Error:            "invalid_token",
				ErrorDescription: "The access token expired",
			},
		},
		{
			name:   "parameter names are case-insensitive",
			header: `Bearer ERROR="invalid_token"`,
			want: &AuthChallenge{
				Scheme: "Bearer",
				Error:  "invalid_token",
			},
		},
		{
			name:    "empty header",
			header:  "  ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWWWAuthenticate(tt.header)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseWWWAuthenticate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			if *got != *tt.want {
				t.Errorf("ParseWWWAuthenticate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestChallengeFromResponse(t *testing.T) {
	tests := []struct {
		name      string
		resp      *http.Response
		wantNil   bool
		wantError string
	}{
		{
			name:    "nil response",
			resp:    nil,
			wantNil: true,
		},
		{
			name: "200 OK",
			resp: &http.Response{
				StatusCode: 200,
				Header:     http.Header{"Www-Authenticate": []string{`Bearer error="invalid_token"`}},
			},
			wantNil: true,
		},
		{
			name: "401 without header",
			resp: &http.Response{
				StatusCode: 401,
				Header:     http.Header{},
			},
			wantNil: true,
		},
		{
			name: "401 with basic scheme",
			resp: &http.Response{
				StatusCode: 401,
				Header:     http.Header{"Www-Authenticate": []string{`Basic realm="api"`}},
			},
			wantNil: true,
		},
		{
			name: "401 with bearer error",
			resp: &http.Response{
				StatusCode: 401,
				Header:     http.Header{"Www-Authenticate": []string{`Bearer error="invalid_token"`}},
			},
			wantError: "invalid_token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChallengeFromResponse(tt.resp)
			if tt.wantNil {
				if got != nil {
					t.Errorf("ChallengeFromResponse() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("ChallengeFromResponse() = nil, want non-nil")
			}
			if got.Error != tt.wantError {
				t.Errorf("Error = %q, want %q", got.Error, tt.wantError)
			}
		})
	}
}
