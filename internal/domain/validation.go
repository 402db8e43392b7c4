package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidDescription = errors.New("invalid description")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooWeak    = errors.New("password does not meet requirements")
)

// Validation constants
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 500
	MaxAmount            = "1000000000000" // 1 trillion
	MinPasswordLength    = 8
	MaxPasswordLength    = 72 // bcrypt input limit
	MaxTickerLength      = 12

	// AmountScale and QuantityScale match the NUMERIC columns the values
	// are stored in. Finer input would be rounded per row by the database
	// and drift away from the balances computed here.
	AmountScale   = 2
	QuantityScale = 8

	// DateLayout is the layout accepted for calendar dates.
	DateLayout = "2006-01-02"
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	tickerRegex = regexp.MustCompile(`^[A-Z0-9.\-]+$`)
	maxAmount   = decimal.RequireFromString(MaxAmount)
)

// ValidateName validates a display name (accounts, goals, cards, users).
func ValidateName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}

	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxNameLength)
	}

	return nil
}

// ValidateDescription validates a transaction description.
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidDescription, MaxDescriptionLength)
	}
	return nil
}

// ValidateAmount validates a monetary amount. Zero is allowed, negative
// amounts are not: the sign of a movement is carried by its type.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}

	if !fitsScale(amount, AmountScale) {
		return fmt.Errorf("%w: at most %d decimal places", ErrInvalidAmount, AmountScale)
	}

	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidateQuantity validates an order quantity.
func ValidateQuantity(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return ErrInvalidQuantity
	}
	if !fitsScale(quantity, QuantityScale) {
		return fmt.Errorf("%w: at most %d decimal places", ErrInvalidQuantity, QuantityScale)
	}
	return nil
}

func fitsScale(d decimal.Decimal, places int32) bool {
	return d.Truncate(places).Equal(d)
}

// ParseAmount parses a user supplied decimal string and validates it.
// Empty, non-numeric and negative input is rejected before it can reach
// any balance arithmetic.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: value is required", ErrInvalidAmount)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}

	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}

// ParseOptionalAmount is ParseAmount that maps empty input to zero.
func ParseOptionalAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return ParseAmount(s)
}

// ParseDate parses a calendar date (YYYY-MM-DD) or an RFC 3339 timestamp.
// Results are in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// ValidatePassword validates password length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	return nil
}

// NormalizeTicker upper-cases a ticker symbol and validates it.
func NormalizeTicker(ticker string) (string, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	if ticker == "" || len(ticker) > MaxTickerLength || !tickerRegex.MatchString(ticker) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTicker, ticker)
	}

	return ticker, nil
}
