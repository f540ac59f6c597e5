package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smokyabdulrahman/miqat/internal/hijri"
)

// dayJSON is one day as the API returns it, trimmed to the fields we read
// plus a few we ignore.
const dayJSON = `{
	"timings": {
		"Fajr": "05:17 (GMT)", "Sunrise": "06:48 (GMT)", "Dhuhr": "12:13 (GMT)",
		"Asr": "15:02 (GMT)", "Sunset": "17:39 (GMT)", "Maghrib": "17:39 (GMT)",
		"Isha": "19:10 (GMT)", "Imsak": "05:07 (GMT)", "Midnight": "00:14 (GMT)",
		"Firstthird": "22:02 (GMT)", "Lastthird": "02:25 (GMT)"
	},
	"date": {
		"readable": "%[1]s Feb 2026",
		"timestamp": "1772262000",
		"hijri": {"date": "11-09-1447", "month": {"number": 9, "en": "Ramaḍān"}},
		"gregorian": {"date": "%[1]s-02-2026", "weekday": {"en": "Saturday"}}
	},
	"meta": {
		"latitude": 51.5074, "longitude": -0.1278, "timezone": "Europe/London",
		"method": {"id": 2, "name": "Islamic Society of North America (ISNA)"},
		"school": "STANDARD"
	}
}`

func day(n int) string {
	return fmt.Sprintf(dayJSON, fmt.Sprintf("%02d", n))
}

func envelope(data string) string {
	return `{"code": 200, "status": "OK", "data": ` + data + `}`
}

var (
	testDate  = hijri.GregorianDate{Year: 2026, Month: 2, Day: 28}
	testQuery = Query{Latitude: 51.5074, Longitude: -0.1278, Method: 2, School: 1, Timezone: "Europe/London"}
)

// newTestClient points a client at handler.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient()
	c.BaseURL = server.URL
	return c
}

// respond serves body with the given status.
func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}
}

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

func TestQuery_Encode(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want string
	}{
		{
			"full",
			testQuery,
			"latitude=51.507400&longitude=-0.127800&method=2&school=1&timezonestring=Europe%2FLondon",
		},
		{
			// Method 0 (Jafari) is a real id and must be sent.
			"zero method without zone",
			Query{Latitude: 21.4225, Longitude: 39.8262},
			"latitude=21.422500&longitude=39.826200&method=0&school=0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.encode(); got != tt.want {
				t.Errorf("encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetch_Paths(t *testing.T) {
	tests := []struct {
		name string
		call func(c *Client) error
		want string
	}{
		{"timings", func(c *Client) error {
			_, err := c.FetchTimings(context.Background(), testDate, testQuery)
			return err
		}, "/timings/28-02-2026"},
		{"timings pads year", func(c *Client) error {
			_, err := c.FetchTimings(context.Background(), hijri.GregorianDate{Year: 622, Month: 7, Day: 16}, testQuery)
			return err
		}, "/timings/16-07-0622"},
		{"calendar", func(c *Client) error {
			_, err := c.FetchCalendar(context.Background(), 2026, 2, testQuery)
			return err
		}, "/calendar/2026/2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				body := day(28)
				if strings.HasPrefix(r.URL.Path, "/calendar") {
					body = "[" + body + "]"
				}
				fmt.Fprint(w, envelope(body))
			})

			if err := tt.call(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if path != tt.want {
				t.Errorf("path = %q, want %q", path, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Responses
// ---------------------------------------------------------------------------

func TestFetchTimings_Success(t *testing.T) {
	c := newTestClient(t, respond(http.StatusOK, envelope(day(28))))

	got, err := c.FetchTimings(context.Background(), testDate, testQuery)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok := got.Data.Timings.Get("Firstthird"); !ok || v != "22:02 (GMT)" {
		t.Errorf("Firstthird = %q, %v", v, ok)
	}
	if _, ok := got.Data.Timings.Get("Brunch"); ok {
		t.Error("unknown names should not be found")
	}
	if got.Data.Meta.Timezone != "Europe/London" || got.Data.Meta.Method.ID != 2 {
		t.Errorf("Meta = %+v", got.Data.Meta)
	}
}

func TestFetchCalendar_Success(t *testing.T) {
	days := make([]string, 28)
	for i := range days {
		days[i] = day(i + 1)
	}
	c := newTestClient(t, respond(http.StatusOK, envelope("["+strings.Join(days, ",")+"]")))

	got, err := c.FetchCalendar(context.Background(), 2026, 2, testQuery)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Data) != 28 {
		t.Fatalf("len(Data) = %d, want 28", len(got.Data))
	}
	d, err := got.Data[27].Date.Gregorian.Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if d != testDate {
		t.Errorf("last day = %v, want %v", d, testDate)
	}
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{"http status", respond(http.StatusServiceUnavailable, "down for maintenance"), "503"},
		{"invalid json", respond(http.StatusOK, "not json"), "decode"},
		{"envelope code", respond(http.StatusOK, `{"code": 400, "status": "Bad Request", "data": "Invalid date"}`), "code=400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)

			_, err := c.FetchTimings(context.Background(), testDate, testQuery)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("FetchTimings error = %v, want mention of %q", err, tt.want)
			}
			_, err = c.FetchCalendar(context.Background(), 2026, 2, testQuery)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("FetchCalendar error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestFetch_ErrorBodyTruncated(t *testing.T) {
	c := newTestClient(t, respond(http.StatusBadGateway, strings.Repeat("x", 4*maxErrorBody)))

	_, err := c.FetchTimings(context.Background(), testDate, testQuery)
	if err == nil {
		t.Fatal("expected error")
	}
	if n := strings.Count(err.Error(), "x"); n != maxErrorBody {
		t.Errorf("error carries %d bytes of body, want %d", n, maxErrorBody)
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	c := NewClient()
	c.BaseURL = "http://127.0.0.1:1" // nothing listening

	if _, err := c.FetchTimings(context.Background(), testDate, testQuery); err == nil {
		t.Fatal("expected error for connection refused, got nil")
	}
}

func TestFetch_ContextCanceled(t *testing.T) {
	c := newTestClient(t, respond(http.StatusOK, envelope(day(28))))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FetchTimings(ctx, testDate, testQuery)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
