package errors

import (
	"strings"
	"unicode"
)

// MaxItemNameLength bounds item names accepted from users and recipe sources.
const MaxItemNameLength = 256

// MaxAmount bounds a single requested quantity.
const MaxAmount = 1_000_000

// ValidateItemName validates an item name received from a user or a recipe source.
//
// Item names are case-sensitive and may contain spaces ("Iron Plate"), so the
// rules only reject names that cannot be stored or displayed sensibly:
//   - No empty or whitespace-only names
//   - No control characters (including null bytes and newlines)
//   - Maximum length of 256 bytes
func ValidateItemName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidItem, "item name cannot be empty")
	}

	if len(name) > MaxItemNameLength {
		return New(ErrCodeInvalidItem, "item name too long (max %d characters)", MaxItemNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidItem, "item name contains invalid control characters")
		}
	}

	return nil
}

// ValidateAmount validates a requested craft or resolve quantity.
// Amounts must be positive and no larger than [MaxAmount].
func ValidateAmount(amount int) error {
	if amount <= 0 {
		return New(ErrCodeInvalidAmount, "amount must be positive, got %d", amount)
	}
	if amount > MaxAmount {
		return New(ErrCodeInvalidAmount, "amount too large (max %d)", MaxAmount)
	}
	return nil
}

// ValidateQuantity validates a pool quantity. Zero is allowed.
func ValidateQuantity(item string, qty int) error {
	if qty < 0 {
		return New(ErrCodeInvalidAmount, "quantity for %q cannot be negative, got %d", item, qty)
	}
	return nil
}
