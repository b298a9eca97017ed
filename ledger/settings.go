/*
settings.go - Singleton settings record and its service

PURPOSE:
  Settings is exactly one row holding business preferences and the default
  values the transaction and stock forms prefill. Rather than ambient
  global state, engines that depend on a setting receive it at
  construction time and expose a Reload hook; the service publishes a
  settings-change event so they can re-read.

FIRST RUN:
  Get seeds the store with DefaultSettings when no row exists yet. The
  seed is silent: only Update publishes a settings-change event. Get can
  run inside a subscriber's callback (the backup scheduler re-reads
  settings on every change), so publishing from the read path would
  re-enter the subscriber while it still holds its own lock.
*/
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BackupFrequency is how often automatic snapshots are written.
type BackupFrequency string

const (
	BackupDaily   BackupFrequency = "daily"
	BackupWeekly  BackupFrequency = "weekly"
	BackupMonthly BackupFrequency = "monthly"
)

// Settings is the singleton preference record.
type Settings struct {
	ID int64

	// Business identity
	BusinessName    string
	BusinessAddress string
	BusinessPhone   string
	BusinessEmail   string

	// Form defaults
	DefaultShrinkagePercentage decimal.Decimal
	DefaultDailyPrice          decimal.Decimal

	// Display
	Currency       string
	CurrencySymbol string
	ItemsPerPage   int

	// Debt handling
	DebtDueDays int // grace period added to a sale date for new debts

	// Automatic backup
	EnableAutoBackup bool
	BackupFrequency  BackupFrequency

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultSettings returns the record seeded on first run.
func DefaultSettings(now time.Time) Settings {
	return Settings{
		BusinessName:               "UdangKu",
		DefaultShrinkagePercentage: decimal.NewFromInt(2),
		DefaultDailyPrice:          decimal.NewFromInt(25000),
		Currency:                   "IDR",
		CurrencySymbol:             "Rp",
		ItemsPerPage:               10,
		DebtDueDays:                30,
		EnableAutoBackup:           false,
		BackupFrequency:            BackupWeekly,
		CreatedAt:                  now,
	}
}

// =============================================================================
// SETTINGS SERVICE
// =============================================================================

// SettingsService reads and updates the singleton record.
type SettingsService struct {
	store Store
	bus   *Bus
	now   func() time.Time
}

// NewSettingsService creates a settings service.
func NewSettingsService(store Store, bus *Bus) *SettingsService {
	return &SettingsService{store: store, bus: bus, now: time.Now}
}

// Get returns the settings, seeding defaults when none exist yet.
// Seeding does not publish: Get is a read, and it must stay safe to call
// from inside a settings-change subscriber.
func (s *SettingsService) Get(ctx context.Context) (Settings, error) {
	current, err := s.store.GetSettings(ctx)
	if err != nil {
		return Settings{}, storageErr("get settings", err)
	}
	if current != nil {
		return *current, nil
	}

	seeded := DefaultSettings(s.now())
	if err := s.store.SaveSettings(ctx, seeded); err != nil {
		return Settings{}, storageErr("seed settings", err)
	}
	return seeded, nil
}

// UpdateSettingsInput is a partial patch; nil fields keep prior values.
type UpdateSettingsInput struct {
	BusinessName    *string
	BusinessAddress *string
	BusinessPhone   *string
	BusinessEmail   *string

	DefaultShrinkagePercentage *decimal.Decimal
	DefaultDailyPrice          *decimal.Decimal

	Currency       *string
	CurrencySymbol *string
	ItemsPerPage   *int

	DebtDueDays *int

	EnableAutoBackup *bool
	BackupFrequency  *BackupFrequency
}

// Update applies the patch and returns the merged record.
func (s *SettingsService) Update(ctx context.Context, in UpdateSettingsInput) (Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return Settings{}, err
	}

	if in.BusinessName != nil {
		current.BusinessName = *in.BusinessName
	}
	if in.BusinessAddress != nil {
		current.BusinessAddress = *in.BusinessAddress
	}
	if in.BusinessPhone != nil {
		current.BusinessPhone = *in.BusinessPhone
	}
	if in.BusinessEmail != nil {
		current.BusinessEmail = *in.BusinessEmail
	}
	if in.DefaultShrinkagePercentage != nil {
		if in.DefaultShrinkagePercentage.IsNegative() {
			return Settings{}, &ValidationError{Field: "defaultShrinkagePercentage", Reason: "must not be negative"}
		}
		current.DefaultShrinkagePercentage = *in.DefaultShrinkagePercentage
	}
	if in.DefaultDailyPrice != nil {
		if in.DefaultDailyPrice.IsNegative() {
			return Settings{}, &ValidationError{Field: "defaultDailyPrice", Reason: "must not be negative"}
		}
		current.DefaultDailyPrice = *in.DefaultDailyPrice
	}
	if in.Currency != nil {
		current.Currency = *in.Currency
	}
	if in.CurrencySymbol != nil {
		current.CurrencySymbol = *in.CurrencySymbol
	}
	if in.ItemsPerPage != nil {
		current.ItemsPerPage = *in.ItemsPerPage
	}
	if in.DebtDueDays != nil {
		if *in.DebtDueDays < 0 {
			return Settings{}, &ValidationError{Field: "debtDueDays", Reason: "must not be negative"}
		}
		current.DebtDueDays = *in.DebtDueDays
	}
	if in.EnableAutoBackup != nil {
		current.EnableAutoBackup = *in.EnableAutoBackup
	}
	if in.BackupFrequency != nil {
		switch *in.BackupFrequency {
		case BackupDaily, BackupWeekly, BackupMonthly:
		default:
			return Settings{}, &ValidationError{Field: "backupFrequency", Reason: "must be daily, weekly or monthly"}
		}
		current.BackupFrequency = *in.BackupFrequency
	}

	current.UpdatedAt = s.now()
	if err := s.store.SaveSettings(ctx, current); err != nil {
		return Settings{}, storageErr("save settings", err)
	}
	s.bus.Publish(CollectionSettings)
	return current, nil
}
