package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// PaymentMethod is how an expense was paid.
	PaymentMethod string

	// IncomeSource is where an income came from.
	IncomeSource string

	// Period is a recurrence or budget cycle granularity.
	Period string

	// Date is a calendar date; the time-of-day component is ignored.
	Date struct {
		time.Time
	}

	// Money is an exact fixed-point amount in paise (1/100 rupee).
	Money struct {
		Paise int64
	}

	Category struct {
		ID          int64
		Name        string
		Description string
		Color       string
		Icon        string
		CreatedAt   time.Time
	}

	Expense struct {
		ID            int64
		UserID        int64
		CategoryID    int64
		CategoryName  string // populated by joins, not stored
		Title         string
		Description   string
		Amount        Money
		Date          Date
		PaymentMethod PaymentMethod
		ReceiptRef    string
		IsRecurring   bool
		RecurringEach Period
		Tags          string // comma-separated, raw
		Location      string
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	Income struct {
		ID            int64
		UserID        int64
		Title         string
		Description   string
		Amount        Money
		Source        IncomeSource
		Date          Date
		IsRecurring   bool
		RecurringEach Period
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	Budget struct {
		ID           int64
		UserID       int64
		CategoryID   int64
		CategoryName string // populated by joins
		Amount       Money
		PeriodType   Period
		StartDate    Date
		IsActive     bool
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}

	UserProfile struct {
		ID                 int64
		UserID             int64
		AvatarRef          string
		Phone              string
		DateOfBirth        Date
		Currency           string
		MonthlyBudget      *Money
		Timezone           string
		EmailNotifications bool
		BudgetAlerts       bool
		CreatedAt          time.Time
		UpdatedAt          time.Time
	}
)

const (
	PayCash       PaymentMethod = "cash"
	PayCard       PaymentMethod = "card"
	PayUPI        PaymentMethod = "upi"
	PayNetBanking PaymentMethod = "netbanking"
	PayWallet     PaymentMethod = "wallet"
	PayCheque     PaymentMethod = "cheque"
	PayOther      PaymentMethod = "other"
)

const (
	SourceSalary     IncomeSource = "salary"
	SourceFreelance  IncomeSource = "freelance"
	SourceBusiness   IncomeSource = "business"
	SourceInvestment IncomeSource = "investment"
	SourceGift       IncomeSource = "gift"
	SourceBonus      IncomeSource = "bonus"
	SourceOther      IncomeSource = "other"
)

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

const (
	DefaultCategoryColor = "#007bff"
	DefaultCategoryIcon  = "fas fa-money-bill-wave"
	DefaultCurrency      = "INR"
	DefaultTimezone      = "Asia/Kolkata"
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyTitle        = errors.New("empty title")
	ErrEmptyName         = errors.New("empty name")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidPayment    = errors.New("invalid payment method")
	ErrInvalidSource     = errors.New("invalid income source")
	ErrInvalidPeriod     = errors.New("invalid period")
	ErrMissingPeriod     = errors.New("recurring period required for recurring entries")
	ErrMissingCategory   = errors.New("category required")
	ErrNotFound          = errors.New("not found")
	ErrDuplicateCategory = errors.New("category name already exists")
	ErrDuplicateBudget   = errors.New("budget already exists for this category and period")
)

var paymentLabels = map[PaymentMethod]string{
	PayCash:       "Cash",
	PayCard:       "Debit/Credit Card",
	PayUPI:        "UPI",
	PayNetBanking: "Net Banking",
	PayWallet:     "Digital Wallet",
	PayCheque:     "Cheque",
	PayOther:      "Other",
}

var sourceLabels = map[IncomeSource]string{
	SourceSalary:     "Salary",
	SourceFreelance:  "Freelance",
	SourceBusiness:   "Business",
	SourceInvestment: "Investment",
	SourceGift:       "Gift",
	SourceBonus:      "Bonus",
	SourceOther:      "Other",
}

// PaymentMethods lists all valid methods in form display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PayCash, PayCard, PayUPI, PayNetBanking, PayWallet, PayCheque, PayOther}
}

// IncomeSources lists all valid sources in form display order.
func IncomeSources() []IncomeSource {
	return []IncomeSource{SourceSalary, SourceFreelance, SourceBusiness, SourceInvestment, SourceGift, SourceBonus, SourceOther}
}

// Periods lists all valid recurrence/budget periods.
func Periods() []Period {
	return []Period{Daily, Weekly, Monthly, Yearly}
}

func (p PaymentMethod) Valid() bool {
	_, ok := paymentLabels[p]
	return ok
}

// Label returns the human-readable form of a payment method
// (e.g. "card" -> "Debit/Credit Card"). Unknown codes map to "Other".
func (p PaymentMethod) Label() string {
	if l, ok := paymentLabels[p]; ok {
		return l
	}
	return paymentLabels[PayOther]
}

func (s IncomeSource) Valid() bool {
	_, ok := sourceLabels[s]
	return ok
}

func (s IncomeSource) Label() string {
	if l, ok := sourceLabels[s]; ok {
		return l
	}
	return sourceLabels[SourceOther]
}

func (p Period) Valid() bool {
	switch p {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today truncates now to a calendar date.
func Today(now time.Time) Date {
	return NewDate(now.Year(), now.Month(), now.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (m Money) Validate() error {
	if m.Paise < 1 {
		return ErrInvalidAmount
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.CategoryID == 0 {
		return ErrMissingCategory
	}
	if !e.PaymentMethod.Valid() {
		return ErrInvalidPayment
	}
	if e.IsRecurring && !e.RecurringEach.Valid() {
		return ErrMissingPeriod
	}
	if !e.IsRecurring && e.RecurringEach != "" {
		return ErrInvalidPeriod
	}
	return nil
}

func (i Income) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return ErrEmptyTitle
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if err := i.Date.Validate(); err != nil {
		return err
	}
	if !i.Source.Valid() {
		return ErrInvalidSource
	}
	if i.IsRecurring && !i.RecurringEach.Valid() {
		return ErrMissingPeriod
	}
	if !i.IsRecurring && i.RecurringEach != "" {
		return ErrInvalidPeriod
	}
	return nil
}

func (b Budget) Validate() error {
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if b.CategoryID == 0 {
		return ErrMissingCategory
	}
	if !b.PeriodType.Valid() {
		return ErrInvalidPeriod
	}
	if err := b.StartDate.Validate(); err != nil {
		return err
	}
	return nil
}

// TagList splits the raw comma-separated tags string into trimmed,
// non-empty tags. The stored form stays raw; search matches against it.
func (e Expense) TagList() []string {
	if strings.TrimSpace(e.Tags) == "" {
		return nil
	}
	parts := strings.Split(e.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
