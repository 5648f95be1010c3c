package bind

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	perr "campaigntracker/internal/platform/errors"
)

type campaignIn struct {
	Name      string   `json:"name" validate:"required,min=2"`
	Audios    []string `json:"audios" validate:"min=1,dive,tiktok_link"`
	StartDate string   `json:"start_date" validate:"required,isodate"`
	Budget    int64    `json:"budget" validate:"min=1"`
}

const validBody = `{"name":"Summer","audios":["https://www.tiktok.com/music/x-1"],"start_date":"2025-06-01","budget":100}`

func TestParseJSON_Success(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(validBody))
	got, err := ParseJSON[campaignIn](req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Summer" || got.Budget != 100 || len(got.Audios) != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestParseJSON_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
		opts []JSONOptions
		code perr.ErrorCode
	}{
		{"empty body", "", nil, perr.ErrorCodeJSON},
		{"invalid json", `{`, nil, perr.ErrorCodeJSON},
		{"unknown field", strings.Replace(validBody, `"budget"`, `"boom"`, 1), nil, perr.ErrorCodeJSON},
		{"too large", validBody, []JSONOptions{{MaxBytes: 5, DisallowUnknown: true}}, perr.ErrorCodeJSON},
		{"validation", strings.Replace(validBody, `"Summer"`, `"S"`, 1), nil, perr.ErrorCodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tc.body))
			_, err := ParseJSON[campaignIn](req, tc.opts...)
			if got := perr.CodeOf(err); got != tc.code {
				t.Fatalf("code = %v, want %v (%v)", got, tc.code, err)
			}
		})
	}
}

func TestParseJSON_AllowEmptyBody(t *testing.T) {
	type note struct {
		Note string `json:"note"`
	}
	req := httptest.NewRequest("POST", "/", http.NoBody)
	got, err := ParseJSON[note](req, JSONOptions{AllowEmptyBody: true})
	if err != nil || got != (note{}) {
		t.Fatalf("got %+v, %v", got, err)
	}
}

func TestParseJSON_DisallowUnknownFalse(t *testing.T) {
	body := strings.Replace(validBody, `}`, `,"extra":"ok"}`, 1)
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	if _, err := ParseJSON[campaignIn](req, JSONOptions{MaxBytes: 1 << 10}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestParseJSON_TrailingData(t *testing.T) {
	orig := jsonMore
	jsonMore = func(*json.Decoder) bool { return true }
	defer func() { jsonMore = orig }()

	req := httptest.NewRequest("POST", "/", strings.NewReader(validBody))
	if _, err := ParseJSON[campaignIn](req); perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected JSON error, got %v", err)
	}
}

func TestParseJSON_NonStruct(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`5`))
	_, err := ParseJSON[int](req)
	if perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected JSON-coded error, got %v", err)
	}
}

func TestValidate_FieldAndMessages(t *testing.T) {
	cases := []struct {
		in    campaignIn
		field string
		msg   string
	}{
		{campaignIn{Name: "Summer", Audios: []string{"https://tiktok.com/m"}, StartDate: "2025-06-01"}, "budget", "budget must be at least 1"},
		{campaignIn{Name: "Summer", Audios: []string{"https://youtube.com/m"}, StartDate: "2025-06-01", Budget: 1}, "audios[0]", "audios[0] must be a tiktok link"},
		{campaignIn{Name: "Summer", Audios: []string{"https://tiktok.com/m"}, StartDate: "June 1st", Budget: 1}, "start_date", "start_date must be an ISO-8601 date"},
	}
	for _, tc := range cases {
		err := Validate(tc.in)
		e, ok := perr.As(err)
		if !ok || e.Code() != perr.ErrorCodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
		if e.Field() != tc.field || e.Message() != tc.msg {
			t.Fatalf("field=%q msg=%q, want %q %q", e.Field(), e.Message(), tc.field, tc.msg)
		}
	}
}

func TestTagNameFunc(t *testing.T) {
	type s struct {
		Val    int `json:"foo,omitempty" validate:"max=1"`
		Secret int `json:"-" validate:"min=1"`
	}
	field, msg := ValidationFieldAndMessage(Get().Validator.Struct(s{Val: 2, Secret: 1}))
	if field != "foo" || msg != "foo must be at most 1" {
		t.Fatalf("field=%q msg=%q", field, msg)
	}
	field, _ = ValidationFieldAndMessage(Get().Validator.Struct(s{}))
	if field != "Secret" {
		t.Fatalf("dash tag should fall back to field name, got %q", field)
	}
}

func TestValidationFieldAndMessage_GenericError(t *testing.T) {
	field, msg := ValidationFieldAndMessage(errors.New("boom"))
	if field != "" || msg != "boom" {
		t.Fatalf("field=%q msg=%q", field, msg)
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2025-06-01", "2025-06-01T00:00:00Z", " 2025-06-01T02:00:00+02:00 "} {
		got, err := ParseDate(in)
		if err != nil || !got.Equal(want) || got.Location() != time.UTC {
			t.Fatalf("ParseDate(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseDate("01/06/2025"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
}

func TestIsTikTokLink(t *testing.T) {
	for in, want := range map[string]bool{
		"https://www.tiktok.com/@maria/video/7301": true,
		"http://tiktok.com/music/song-1":           true,
		"https://vm.tiktok.com/ZM123/":             true,
		"https://nottiktok.com/video/1":            false,
		"ftp://tiktok.com/x":                       false,
		"not a url":                                false,
	} {
		if got := IsTikTokLink(in); got != want {
			t.Fatalf("IsTikTokLink(%q) = %v", in, got)
		}
	}
}
