// Form and query parsing into domain entities. Every string field passes
// through sanitizeInput; amounts go through the exact decimal parser.
package http

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"kharcha/internal/core"
)

var errBadDate = errors.New("invalid date format, expected YYYY-MM-DD")

func parseExpenseForm(form url.Values, userID int64) (core.Expense, error) {
	e := core.Expense{
		UserID:      userID,
		Title:       sanitizeInput(form.Get("title")),
		Description: sanitizeInput(form.Get("description")),
		ReceiptRef:  sanitizeInput(form.Get("receipt_ref")),
		Tags:        sanitizeInput(form.Get("tags")),
		Location:    sanitizeInput(form.Get("location")),
	}

	amount, err := core.ParseAmount(form.Get("amount"))
	if err != nil {
		return core.Expense{}, err
	}
	e.Amount = amount

	if catStr := strings.TrimSpace(form.Get("category_id")); catStr != "" {
		catID, err := strconv.ParseInt(catStr, 10, 64)
		if err != nil || catID < 1 {
			return core.Expense{}, core.ErrMissingCategory
		}
		e.CategoryID = catID
	}

	// Date defaults to today when the field is left blank.
	if dateStr := strings.TrimSpace(form.Get("date")); dateStr != "" {
		d, err := parseDate(dateStr)
		if err != nil {
			return core.Expense{}, errBadDate
		}
		e.Date = d
	} else {
		e.Date = core.Today(time.Now())
	}

	e.PaymentMethod = core.PaymentMethod(sanitizeInput(form.Get("payment_method")))
	if e.PaymentMethod == "" {
		e.PaymentMethod = core.PayCash
	}

	e.IsRecurring = form.Get("is_recurring") == "on" || form.Get("is_recurring") == "true"
	if e.IsRecurring {
		e.RecurringEach = core.Period(sanitizeInput(form.Get("recurring_period")))
	}

	return e, e.Validate()
}

func parseIncomeForm(form url.Values, userID int64) (core.Income, error) {
	i := core.Income{
		UserID:      userID,
		Title:       sanitizeInput(form.Get("title")),
		Description: sanitizeInput(form.Get("description")),
	}

	amount, err := core.ParseAmount(form.Get("amount"))
	if err != nil {
		return core.Income{}, err
	}
	i.Amount = amount

	if dateStr := strings.TrimSpace(form.Get("date")); dateStr != "" {
		d, err := parseDate(dateStr)
		if err != nil {
			return core.Income{}, errBadDate
		}
		i.Date = d
	} else {
		i.Date = core.Today(time.Now())
	}

	i.Source = core.IncomeSource(sanitizeInput(form.Get("source")))
	if i.Source == "" {
		i.Source = core.SourceSalary
	}

	i.IsRecurring = form.Get("is_recurring") == "on" || form.Get("is_recurring") == "true"
	if i.IsRecurring {
		i.RecurringEach = core.Period(sanitizeInput(form.Get("recurring_period")))
	}

	return i, i.Validate()
}

func parseBudgetForm(form url.Values, userID int64) (core.Budget, error) {
	b := core.Budget{
		UserID:   userID,
		IsActive: form.Get("is_active") != "false" && form.Get("is_active") != "off",
	}

	amount, err := core.ParseAmount(form.Get("amount"))
	if err != nil {
		return core.Budget{}, err
	}
	b.Amount = amount

	if catStr := strings.TrimSpace(form.Get("category_id")); catStr != "" {
		catID, err := strconv.ParseInt(catStr, 10, 64)
		if err != nil || catID < 1 {
			return core.Budget{}, core.ErrMissingCategory
		}
		b.CategoryID = catID
	}

	b.PeriodType = core.Period(sanitizeInput(form.Get("period_type")))
	if b.PeriodType == "" {
		b.PeriodType = core.Monthly
	}

	if dateStr := strings.TrimSpace(form.Get("start_date")); dateStr != "" {
		d, err := parseDate(dateStr)
		if err != nil {
			return core.Budget{}, errBadDate
		}
		b.StartDate = d
	} else {
		b.StartDate = core.Today(time.Now())
	}

	return b, b.Validate()
}

func parseCategoryForm(form url.Values) (core.Category, error) {
	c := core.Category{
		Name:        sanitizeInput(form.Get("name")),
		Description: sanitizeInput(form.Get("description")),
		Color:       sanitizeInput(form.Get("color")),
		Icon:        sanitizeInput(form.Get("icon")),
	}
	return c, c.Validate()
}

func parseProfileForm(form url.Values, existing core.UserProfile) (core.UserProfile, error) {
	p := existing
	p.AvatarRef = sanitizeInput(form.Get("avatar_ref"))
	p.Phone = sanitizeInput(form.Get("phone"))

	if dateStr := strings.TrimSpace(form.Get("date_of_birth")); dateStr != "" {
		d, err := parseDate(dateStr)
		if err != nil {
			return core.UserProfile{}, errBadDate
		}
		p.DateOfBirth = d
	} else {
		p.DateOfBirth = core.Date{}
	}

	if currency := sanitizeInput(form.Get("currency")); currency != "" {
		p.Currency = strings.ToUpper(currency)
	}
	if tz := sanitizeInput(form.Get("timezone")); tz != "" {
		p.Timezone = tz
	}

	if budgetStr := strings.TrimSpace(form.Get("monthly_budget")); budgetStr != "" {
		budget, err := core.ParseAmount(budgetStr)
		if err != nil {
			return core.UserProfile{}, err
		}
		p.MonthlyBudget = &budget
	} else {
		p.MonthlyBudget = nil
	}

	p.EmailNotifications = form.Get("email_notifications") == "on" || form.Get("email_notifications") == "true"
	p.BudgetAlerts = form.Get("budget_alerts") == "on" || form.Get("budget_alerts") == "true"

	return p, nil
}

// parseExpenseFilter builds the filter from list-page query parameters. A
// missing or blank parameter leaves the corresponding field unset.
func parseExpenseFilter(query url.Values) (core.ExpenseFilter, error) {
	var f core.ExpenseFilter

	if v := strings.TrimSpace(query.Get("date_from")); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return core.ExpenseFilter{}, errBadDate
		}
		f.DateFrom = d
	}
	if v := strings.TrimSpace(query.Get("date_to")); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return core.ExpenseFilter{}, errBadDate
		}
		f.DateTo = d
	}
	if v := strings.TrimSpace(query.Get("category")); v != "" {
		catID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || catID < 1 {
			return core.ExpenseFilter{}, core.ErrMissingCategory
		}
		f.CategoryID = catID
	}
	if v := strings.TrimSpace(query.Get("payment_method")); v != "" {
		f.PaymentMethod = core.PaymentMethod(v)
	}
	if v := strings.TrimSpace(query.Get("amount_min")); v != "" {
		m, err := core.ParseAmount(v)
		if err != nil {
			return core.ExpenseFilter{}, err
		}
		f.AmountMin = &m
	}
	if v := strings.TrimSpace(query.Get("amount_max")); v != "" {
		m, err := core.ParseAmount(v)
		if err != nil {
			return core.ExpenseFilter{}, err
		}
		f.AmountMax = &m
	}

	return f, f.Validate()
}

// errorMessage translates domain errors into user-facing form feedback.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Please enter a valid positive amount"
	case errors.Is(err, core.ErrEmptyTitle):
		return "Title is required"
	case errors.Is(err, core.ErrEmptyName):
		return "Name is required"
	case errors.Is(err, core.ErrMissingCategory):
		return "Please choose a category"
	case errors.Is(err, core.ErrInvalidPayment):
		return "Unknown payment method"
	case errors.Is(err, core.ErrInvalidSource):
		return "Unknown income source"
	case errors.Is(err, core.ErrInvalidPeriod), errors.Is(err, core.ErrMissingPeriod):
		return "Recurring entries need a valid period"
	case errors.Is(err, errBadDate), errors.Is(err, core.ErrInvalidDate):
		return "Invalid date, expected YYYY-MM-DD"
	case errors.Is(err, core.ErrDuplicateCategory):
		return "A category with this name already exists"
	case errors.Is(err, core.ErrDuplicateBudget):
		return "A budget for this category and period already exists"
	default:
		return "Invalid input"
	}
}
