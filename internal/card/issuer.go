// Package card generates payment card credentials.
package card

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"custodial-ledger/internal/domain"
)

const (
	// NumberPrefix is the fixed network prefix all issued cards share.
	NumberPrefix = "4000"
	// NumberLength is the total card number length including the prefix.
	NumberLength = 16
	// expiryYearOffset is how many years from issuance a card stays valid.
	expiryYearOffset = 3
)

// Issuer produces new card records. Generation is pure: no state is kept
// between issuances, and number uniqueness is probabilistic (12 random
// digits behind the fixed prefix), not checked against existing cards.
type Issuer struct{}

func NewIssuer() *Issuer {
	return &Issuer{}
}

// Issue generates a card bound to the given account.
func (i *Issuer) Issue(accountID uuid.UUID) (*domain.Card, error) {
	number, err := GenerateCardNumber(NumberPrefix, NumberLength)
	if err != nil {
		return nil, fmt.Errorf("generate card number: %w", err)
	}

	month, err := randomInt(12)
	if err != nil {
		return nil, fmt.Errorf("generate expiry month: %w", err)
	}

	cvv, err := GenerateCVV()
	if err != nil {
		return nil, fmt.Errorf("generate cvv: %w", err)
	}

	return &domain.Card{
		ID:          uuid.New(),
		AccountID:   accountID,
		CardNumber:  number,
		ExpiryMonth: month + 1,
		ExpiryYear:  time.Now().Year() + expiryYearOffset,
		CVV:         cvv,
		CreatedAt:   time.Now(),
	}, nil
}

// GenerateCardNumber generates a card number with the given prefix padded
// to the given total length with random digits.
func GenerateCardNumber(prefix string, length int) (string, error) {
	if length < len(prefix) || length > 19 {
		return "", fmt.Errorf("invalid card number length: %d", length)
	}

	var builder strings.Builder
	builder.WriteString(prefix)
	for j := 0; j < length-len(prefix); j++ {
		d, err := randomInt(10)
		if err != nil {
			return "", err
		}
		builder.WriteByte(byte('0' + d))
	}

	return builder.String(), nil
}

// GenerateCVV generates a 3-digit security code.
func GenerateCVV() (string, error) {
	n, err := randomInt(1000)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%03d", n), nil
}

func randomInt(max int64) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
