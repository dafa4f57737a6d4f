package governance

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"limelight/models"
	"limelight/quote"
)

type fakeSettingsStore struct {
	values  map[string]string
	getErr  error
	setErr  error
	actors  map[string]string
	reasons map[string]string
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{
		values:  make(map[string]string),
		actors:  make(map[string]string),
		reasons: make(map[string]string),
	}
}

func (f *fakeSettingsStore) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeSettingsStore) Set(ctx context.Context, key, value, actorID, reason string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value
	f.actors[key] = actorID
	f.reasons[key] = reason
	return nil
}

type fakeLogStore struct {
	entries []models.GovernanceLogEntry
}

func (f *fakeLogStore) Append(ctx context.Context, entry models.GovernanceLogEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

type fakeIncidentStore struct {
	incidents []models.RevenueIncident
}

func (f *fakeIncidentStore) Open(ctx context.Context, incident models.RevenueIncident) error {
	f.incidents = append(f.incidents, incident)
	return nil
}

type fakeLifecycle struct {
	expired []models.Booking
	handled []string
	failFor map[string]error
}

func (f *fakeLifecycle) FindExpired(ctx context.Context, now int64) ([]models.Booking, error) {
	return f.expired, nil
}

func (f *fakeLifecycle) HandleExpiry(ctx context.Context, bookingID string) error {
	if err := f.failFor[bookingID]; err != nil {
		return err
	}
	f.handled = append(f.handled, bookingID)
	return nil
}

type fakePublisher struct {
	confirmed     []models.Booking
	expired       []models.Booking
	notifications []models.Notification
}

func (p *fakePublisher) BookingConfirmed(ctx context.Context, b models.Booking) {
	p.confirmed = append(p.confirmed, b)
}

func (p *fakePublisher) BookingExpired(ctx context.Context, b models.Booking) {
	p.expired = append(p.expired, b)
}

func (p *fakePublisher) NotificationCreated(ctx context.Context, n models.Notification) {
	p.notifications = append(p.notifications, n)
}

func newTestService(settings *fakeSettingsStore) (*Service, *fakeLogStore, *fakeIncidentStore, *fakeLifecycle, *fakePublisher) {
	govlog := &fakeLogStore{}
	incidents := &fakeIncidentStore{}
	lc := &fakeLifecycle{failFor: map[string]error{}}
	pub := &fakePublisher{}
	return NewService(settings, govlog, incidents, lc, pub), govlog, incidents, lc, pub
}

func TestToggleKillSwitchActivate(t *testing.T) {
	settings := newFakeSettingsStore()
	svc, govlog, incidents, _, pub := newTestService(settings)

	status, err := svc.ToggleRevenueKillSwitch(context.Background(), true, "admin-1", "payment provider outage")
	if err != nil {
		t.Fatalf("ToggleRevenueKillSwitch: %v", err)
	}
	if status != "active" {
		t.Errorf("status = %q, want active", status)
	}
	if settings.values[models.SettingKillSwitch] != "true" {
		t.Errorf("setting = %q, want true", settings.values[models.SettingKillSwitch])
	}
	if settings.actors[models.SettingKillSwitch] != "admin-1" {
		t.Errorf("actor = %q, want admin-1", settings.actors[models.SettingKillSwitch])
	}
	if len(govlog.entries) != 1 || govlog.entries[0].Action != "kill_switch_toggled" {
		t.Errorf("govlog = %+v, want one kill_switch_toggled entry", govlog.entries)
	}
	if len(incidents.incidents) != 1 {
		t.Fatalf("incidents = %d, want 1", len(incidents.incidents))
	}
	inc := incidents.incidents[0]
	if inc.Type != models.IncidentManualOverride || inc.Severity != models.SeverityHigh {
		t.Errorf("incident = %+v, want manual_override/high", inc)
	}
	if len(pub.notifications) != 1 {
		t.Errorf("notifications = %d, want 1", len(pub.notifications))
	}
}

func TestToggleKillSwitchDeactivateOpensNoIncident(t *testing.T) {
	settings := newFakeSettingsStore()
	svc, govlog, incidents, _, _ := newTestService(settings)

	status, err := svc.ToggleRevenueKillSwitch(context.Background(), false, "admin-1", "outage resolved")
	if err != nil {
		t.Fatalf("ToggleRevenueKillSwitch: %v", err)
	}
	if status != "inactive" {
		t.Errorf("status = %q, want inactive", status)
	}
	if settings.values[models.SettingKillSwitch] != "false" {
		t.Errorf("setting = %q, want false", settings.values[models.SettingKillSwitch])
	}
	if len(incidents.incidents) != 0 {
		t.Errorf("incidents = %d, want 0 on deactivation", len(incidents.incidents))
	}
	if len(govlog.entries) != 1 {
		t.Errorf("govlog entries = %d, want 1", len(govlog.entries))
	}
}

func TestIsRevenueOperational(t *testing.T) {
	cases := []struct {
		name    string
		value   string
		present bool
		getErr  error
		want    bool
		wantErr bool
	}{
		{name: "absent key fails open", present: false, want: true},
		{name: "switch on blocks", value: "true", present: true, want: false},
		{name: "switch off allows", value: "false", present: true, want: true},
		{name: "store error fails closed", getErr: errors.New("down"), wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings := newFakeSettingsStore()
			if tc.present {
				settings.values[models.SettingKillSwitch] = tc.value
			}
			settings.getErr = tc.getErr
			svc, _, _, _, _ := newTestService(settings)

			got, err := svc.IsRevenueOperational(context.Background())
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("IsRevenueOperational: %v", err)
			}
			if got != tc.want {
				t.Errorf("operational = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRunDepositHygiene(t *testing.T) {
	settings := newFakeSettingsStore()
	svc, govlog, _, lc, pub := newTestService(settings)
	lc.expired = []models.Booking{
		{ID: "b1", Status: models.StatusPending},
		{ID: "b2", Status: models.StatusPending},
		{ID: "b3", Status: models.StatusPending},
	}
	lc.failFor["b2"] = errors.New("db hiccup")

	count, err := svc.RunDepositHygiene(context.Background())
	if err != nil {
		t.Fatalf("RunDepositHygiene: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2 (b2 failed)", count)
	}
	if !reflect.DeepEqual(lc.handled, []string{"b1", "b3"}) {
		t.Errorf("handled = %v, want [b1 b3]", lc.handled)
	}
	if len(govlog.entries) != 1 || govlog.entries[0].Action != "deposit_hygiene" {
		t.Errorf("govlog = %+v, want one deposit_hygiene entry", govlog.entries)
	}
	if len(pub.notifications) != 1 {
		t.Errorf("notifications = %d, want 1 for a non-zero sweep", len(pub.notifications))
	}
}

func TestRunDepositHygieneNothingToExpire(t *testing.T) {
	settings := newFakeSettingsStore()
	svc, govlog, _, _, pub := newTestService(settings)

	count, err := svc.RunDepositHygiene(context.Background())
	if err != nil {
		t.Fatalf("RunDepositHygiene: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
	if len(govlog.entries) != 1 {
		t.Errorf("govlog entries = %d, want 1 (sweep is always logged)", len(govlog.entries))
	}
	if len(pub.notifications) != 0 {
		t.Errorf("notifications = %d, want 0 for an empty sweep", len(pub.notifications))
	}
}

func TestLogPricingAnomaly(t *testing.T) {
	settings := newFakeSettingsStore()
	svc, _, incidents, _, _ := newTestService(settings)

	err := svc.LogPricingAnomaly(context.Background(), "weekend uplift exceeded 3x base", "", map[string]interface{}{"quoteTotal": 4200})
	if err != nil {
		t.Fatalf("LogPricingAnomaly: %v", err)
	}
	if len(incidents.incidents) != 1 {
		t.Fatalf("incidents = %d, want 1", len(incidents.incidents))
	}
	inc := incidents.incidents[0]
	if inc.Type != models.IncidentPricingDrift {
		t.Errorf("type = %q, want pricing_drift", inc.Type)
	}
	if inc.Severity != models.SeverityMedium {
		t.Errorf("severity = %q, want default medium", inc.Severity)
	}
}

// --- kill-switch toggle end to end against the quote engine ---

type fixedRuleStore struct {
	rules []models.PricingRule
}

func (f *fixedRuleStore) ActiveRules(ctx context.Context) ([]models.PricingRule, error) {
	return f.rules, nil
}

type recordingAuditStore struct {
	entries []models.PricingAuditEntry
}

func (r *recordingAuditStore) Insert(ctx context.Context, entry *models.PricingAuditEntry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func TestKillSwitchToggleThenQuote(t *testing.T) {
	settings := newFakeSettingsStore()
	svc, _, _, _, _ := newTestService(settings)

	rules := &fixedRuleStore{rules: []models.PricingRule{
		{ID: "r-base", RuleType: models.RuleBaseRate, Strategy: models.StrategyFixed, Value: 500, IsActive: true},
	}}
	audit := &recordingAuditStore{}
	engine := quote.NewEngine(rules, settings, svc, audit)

	// Find a far-out Tuesday so no date-sensitive rules fire.
	d := time.Now().AddDate(0, 0, 30)
	for d.Weekday() != time.Tuesday {
		d = d.AddDate(0, 0, 1)
	}
	req := quote.QuoteRequest{EventDate: d.Format("2006-01-02"), Location: "Leeds, UK"}

	before, err := engine.CalculateQuote(context.Background(), req, "", nil)
	if err != nil {
		t.Fatalf("quote before toggle: %v", err)
	}

	if _, err := svc.ToggleRevenueKillSwitch(context.Background(), true, "admin-1", "drill"); err != nil {
		t.Fatalf("toggle on: %v", err)
	}

	audits := len(audit.entries)
	if _, err := engine.CalculateQuote(context.Background(), req, "", nil); !errors.Is(err, quote.ErrRevenueSuspended) {
		t.Fatalf("quote while suspended: err = %v, want ErrRevenueSuspended", err)
	}
	if len(audit.entries) != audits {
		t.Errorf("audit entries grew while suspended")
	}

	if _, err := svc.ToggleRevenueKillSwitch(context.Background(), false, "admin-1", "drill over"); err != nil {
		t.Fatalf("toggle off: %v", err)
	}

	after, err := engine.CalculateQuote(context.Background(), req, "", nil)
	if err != nil {
		t.Fatalf("quote after toggle: %v", err)
	}
	if after.Total != before.Total || after.DepositAmount != before.DepositAmount {
		t.Errorf("quote changed across toggle: before %v/%v, after %v/%v",
			before.Total, before.DepositAmount, after.Total, after.DepositAmount)
	}
	if !reflect.DeepEqual(after.Breakdown, before.Breakdown) {
		t.Errorf("breakdown changed across toggle: %v vs %v", after.Breakdown, before.Breakdown)
	}
}
