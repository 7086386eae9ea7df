// Package randompkg provides functionality for generating random banking items in tests and demo data.
package randompkg

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz"
	digits   = "0123456789"
)

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// Float64 is a shortcut for generating a random float between 0 and 1 using crypto/rand.
func Float64() float64 {
	return float64(Intn(1<<32)) / (1 << 32)
}

// Int64Between generates a random integer in [min, max].
func Int64Between(min, max int64) int64 {
	return min + Intn(int(max-min+1))
}

// FloatBetween generates a random decimal number between min and max rounded to 2 decimals.
func FloatBetween(min, max float64) float64 {
	numInRange := min + Float64()*(max-min)
	return math.Floor(numInRange*100) / 100
}

func fromSet(set string, n int) string {
	var sb strings.Builder

	k := len(set)

	for i := 0; i < n; i++ {
		_ = sb.WriteByte(set[Intn(k)]) // The returned err is always nil.
	}

	return sb.String()
}

// String generates a random string of length n.
func String(n int) string {
	return fromSet(alphabet, n)
}

// Digits generates a random string of n digits.
func Digits(n int) string {
	return fromSet(digits, n)
}

// Owner generates a random username.
func Owner() string {
	return String(6)
}

// UserID generates a random 11 digit user id like the ledger assigns.
func UserID() string {
	return Digits(11)
}

// AccountNumber generates a random account number with the ledger bank prefix.
func AccountNumber() string {
	return "098765432100" + Digits(4)
}

// MoneyBetween generates a random amount of money between min and max with 2 decimals.
func MoneyBetween(min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(FloatBetween(min, max)).Round(2)
}

// Email generates a random email.
func Email() string {
	return fmt.Sprintf("%s@email.com", String(10))
}

// PhoneNumber generates a random 10 digit phone number.
func PhoneNumber() string {
	return Digits(10)
}
