package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/Awatif2003/marinesafe/client"
	"github.com/Awatif2003/marinesafe/core"
	"github.com/Awatif2003/marinesafe/transport"
)

type stubDoer struct {
	res      transport.Response
	err      error
	authReqs []transport.Request
	execReqs []transport.Request
}

func (d *stubDoer) Execute(_ context.Context, req transport.Request) (transport.Response, error) {
	d.execReqs = append(d.execReqs, req)
	if d.err != nil {
		return transport.Response{}, d.err
	}
	return d.res, nil
}

func (d *stubDoer) AuthenticatedDo(_ context.Context, req transport.Request) (transport.Response, error) {
	d.authReqs = append(d.authReqs, req)
	if d.err != nil {
		return transport.Response{}, d.err
	}
	return d.res, nil
}

type staticEndpoint string

func (e staticEndpoint) Active() string { return string(e) }

func newClient(t *testing.T, doer *stubDoer) *client.Client {
	t.Helper()
	fixed := time.Date(2026, 3, 14, 5, 26, 53, 0, time.UTC)
	c, err := client.New(doer, staticEndpoint("http://primary:3000"), client.WithNowFunc(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func okJSON(t *testing.T, payload any) transport.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return transport.Response{StatusCode: http.StatusOK, Body: body}
}

func TestWeather_SuccessReturnsOkResult(t *testing.T) {
	doer := &stubDoer{res: okJSON(t, []core.WeatherObservation{{ID: 7, Condition: "Clear", Location: "Harbor"}})}
	c := newClient(t, doer)

	result, err := c.Weather(context.Background())
	if err != nil {
		t.Fatalf("weather: %v", err)
	}
	if result.Status != core.ResultOK {
		t.Fatalf("expected ok result, got %+v", result)
	}
	if len(result.Data) != 1 || result.Data[0].Condition != "Clear" {
		t.Fatalf("unexpected data: %+v", result.Data)
	}
	if len(doer.authReqs) != 1 || doer.authReqs[0].URL != "http://primary:3000/weather" {
		t.Fatalf("unexpected requests: %+v", doer.authReqs)
	}
}

func TestWeather_AcceptsEnvelopedList(t *testing.T) {
	doer := &stubDoer{res: okJSON(t, map[string]any{
		"data": []core.WeatherObservation{{ID: 1}, {ID: 2}},
	})}
	c := newClient(t, doer)

	result, err := c.Weather(context.Background())
	if err != nil {
		t.Fatalf("weather: %v", err)
	}
	if result.Status != core.ResultOK || len(result.Data) != 2 {
		t.Fatalf("expected two observations from the envelope, got %+v", result)
	}
}

func TestWeather_TransportFailureDegradesWithFallback(t *testing.T) {
	doer := &stubDoer{err: core.NewTransportError(context.DeadlineExceeded, "request failed", nil)}
	c := newClient(t, doer)

	result, err := c.Weather(context.Background())
	if err != nil {
		t.Fatalf("degraded read must not error: %v", err)
	}
	if !result.IsDegraded() {
		t.Fatalf("expected degraded result, got %+v", result)
	}
	if result.Reason == "" {
		t.Fatalf("degraded result must carry a reason")
	}
	if len(result.Data) == 0 || result.Data[0].Location != "Offline fallback" {
		t.Fatalf("expected flagged fallback data, got %+v", result.Data)
	}
}

func TestWeather_MalformedBodyDegrades(t *testing.T) {
	doer := &stubDoer{res: transport.Response{StatusCode: http.StatusOK, Body: []byte("not json")}}
	c := newClient(t, doer)

	result, err := c.Weather(context.Background())
	if err != nil {
		t.Fatalf("weather: %v", err)
	}
	if !result.IsDegraded() {
		t.Fatalf("expected degraded result for malformed body, got %+v", result)
	}
}

func TestWeather_AuthRequiredErrorSurfaces(t *testing.T) {
	doer := &stubDoer{err: core.NewAuthRequiredError("token rejected", nil)}
	c := newClient(t, doer)

	result, err := c.Weather(context.Background())
	if !core.IsAuthRequired(err) {
		t.Fatalf("expected auth-required error surfaced, got %v", err)
	}
	if result.Status != "" || len(result.Data) != 0 {
		t.Fatalf("auth failure must not produce fallback data, got %+v", result)
	}
}

func TestLocations_DegradedFallbackFlagsOfflineBoat(t *testing.T) {
	doer := &stubDoer{err: core.NewTransportError(context.DeadlineExceeded, "request failed", nil)}
	c := newClient(t, doer)

	result, err := c.Locations(context.Background())
	if err != nil {
		t.Fatalf("locations: %v", err)
	}
	if !result.IsDegraded() || result.Data[0].BoatID != "OFFLINE-BOAT" {
		t.Fatalf("expected offline-flagged fallback fix, got %+v", result)
	}
	if result.Data[0].Timestamp != "2026-03-14T05:26:53Z" {
		t.Fatalf("unexpected fallback timestamp: %q", result.Data[0].Timestamp)
	}
}

func TestAlerts_SuccessAndDegraded(t *testing.T) {
	doer := &stubDoer{res: okJSON(t, []core.Alert{{AlertID: float64(3), Message: "Storm warning"}})}
	c := newClient(t, doer)

	result, err := c.Alerts(context.Background())
	if err != nil {
		t.Fatalf("alerts: %v", err)
	}
	if result.Status != core.ResultOK || len(result.Data) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	doer.err = core.NewTransportError(context.DeadlineExceeded, "request failed", nil)
	result, err = c.Alerts(context.Background())
	if err != nil {
		t.Fatalf("alerts degraded: %v", err)
	}
	if !result.IsDegraded() || len(result.Data) != 2 {
		t.Fatalf("expected the two fallback alerts, got %+v", result)
	}
}

func TestCreateAlert_RequiresMessage(t *testing.T) {
	c := newClient(t, &stubDoer{})
	if _, err := c.CreateAlert(context.Background(), core.AlertInput{Message: "   "}); err == nil {
		t.Fatalf("expected blank message rejection")
	}
}

func TestCreateAlert_PostsAndDecodes(t *testing.T) {
	doer := &stubDoer{res: okJSON(t, core.Alert{AlertID: float64(12), Message: "Engine failure", Severity: "high"})}
	c := newClient(t, doer)

	created, err := c.CreateAlert(context.Background(), core.AlertInput{Message: "Engine failure", Severity: "high"})
	if err != nil {
		t.Fatalf("create alert: %v", err)
	}
	if created.Message != "Engine failure" || created.Severity != "high" {
		t.Fatalf("unexpected created alert: %+v", created)
	}
	if len(doer.authReqs) != 1 || doer.authReqs[0].Method != http.MethodPost || doer.authReqs[0].URL != "http://primary:3000/alerts" {
		t.Fatalf("unexpected request: %+v", doer.authReqs)
	}
}

func TestAlertByID_HandlesWrappedAndDirectForms(t *testing.T) {
	doer := &stubDoer{res: okJSON(t, map[string]any{"alert": core.Alert{AlertID: float64(5), Message: "Wrapped"}})}
	c := newClient(t, doer)

	alert, err := c.AlertByID(context.Background(), "5")
	if err != nil {
		t.Fatalf("alert by id: %v", err)
	}
	if alert.Message != "Wrapped" {
		t.Fatalf("expected the wrapped alert, got %+v", alert)
	}

	doer.res = okJSON(t, core.Alert{AlertID: float64(6), Message: "Direct"})
	alert, err = c.AlertByID(context.Background(), "6")
	if err != nil {
		t.Fatalf("alert by id direct: %v", err)
	}
	if alert.Message != "Direct" {
		t.Fatalf("expected the direct alert, got %+v", alert)
	}
}

func TestAlertByID_EscapesIdentifier(t *testing.T) {
	doer := &stubDoer{res: okJSON(t, core.Alert{Message: "ok"})}
	c := newClient(t, doer)

	if _, err := c.AlertByID(context.Background(), "a/b"); err != nil {
		t.Fatalf("alert by id: %v", err)
	}
	if doer.authReqs[0].URL != "http://primary:3000/alerts/a%2Fb" {
		t.Fatalf("expected escaped path, got %q", doer.authReqs[0].URL)
	}
}

func TestAcknowledgeAlert_PostsResponseMessage(t *testing.T) {
	doer := &stubDoer{res: okJSON(t, map[string]any{"success": true})}
	c := newClient(t, doer)

	out, err := c.AcknowledgeAlert(context.Background(), "9", "crew notified")
	if err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if out["success"] != true {
		t.Fatalf("unexpected acknowledgement body: %+v", out)
	}
	req := doer.authReqs[0]
	if req.URL != "http://primary:3000/alerts/9/acknowledge" {
		t.Fatalf("unexpected url: %q", req.URL)
	}
	var posted map[string]string
	if err := json.Unmarshal(req.Body, &posted); err != nil {
		t.Fatalf("decode posted body: %v", err)
	}
	if posted["responseMessage"] != "crew notified" {
		t.Fatalf("unexpected posted body: %+v", posted)
	}
}

func TestSubmitIoTData_RejectsEmptyPayload(t *testing.T) {
	c := newClient(t, &stubDoer{})
	if _, err := c.SubmitIoTData(context.Background(), nil); err == nil {
		t.Fatalf("expected empty payload rejection")
	}
}

func TestSubmitIoTData_PostsPayload(t *testing.T) {
	doer := &stubDoer{res: okJSON(t, map[string]any{"stored": true})}
	c := newClient(t, doer)

	out, err := c.SubmitIoTData(context.Background(), map[string]any{"temperature": 27.5})
	if err != nil {
		t.Fatalf("submit iot data: %v", err)
	}
	if out["stored"] != true {
		t.Fatalf("unexpected response: %+v", out)
	}
	if doer.authReqs[0].URL != "http://primary:3000/iot/data" {
		t.Fatalf("unexpected url: %q", doer.authReqs[0].URL)
	}
}

func TestCreateUser_ToleratesEmptyBody(t *testing.T) {
	doer := &stubDoer{res: transport.Response{StatusCode: http.StatusOK}}
	c := newClient(t, doer)

	out, err := c.CreateUser(context.Background())
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty object for empty body, got %+v", out)
	}
}

func TestCheckAPIStatus_ProbesRootWithoutAuth(t *testing.T) {
	doer := &stubDoer{res: transport.Response{StatusCode: http.StatusOK}}
	c := newClient(t, doer)

	if err := c.CheckAPIStatus(context.Background()); err != nil {
		t.Fatalf("api status: %v", err)
	}
	if len(doer.execReqs) != 1 || doer.execReqs[0].URL != "http://primary:3000/" {
		t.Fatalf("unexpected probe requests: %+v", doer.execReqs)
	}
	if len(doer.authReqs) != 0 {
		t.Fatalf("probe must not go through the authenticated path")
	}
}

func TestCheckIoTHealth_ReportsHTTPFailure(t *testing.T) {
	doer := &stubDoer{res: transport.Response{StatusCode: http.StatusServiceUnavailable}}
	c := newClient(t, doer)

	err := c.CheckIoTHealth(context.Background())
	if !core.IsHTTPError(err) {
		t.Fatalf("expected http error, got %v", err)
	}
	if core.HTTPStatusOf(err) != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 preserved, got %d", core.HTTPStatusOf(err))
	}
}
