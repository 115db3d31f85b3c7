package receipt

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var (
	quarter     = decimal.RequireFromString("0.25")
	itemPercent = decimal.RequireFromString("0.2")
)

// Rule names reported by Breakdown, in evaluation order.
const (
	RuleRetailerName = "retailer_name"
	RuleRoundDollar  = "round_dollar"
	RuleQuarter      = "multiple_of_quarter"
	RuleItemPairs    = "item_pairs"
	RuleDescription  = "item_description"
	RuleOddDay       = "odd_day"
	RuleAfternoon    = "afternoon_purchase"
)

// RuleResult is the contribution of one rule to a receipt's points.
type RuleResult struct {
	Rule   string `json:"rule"`
	Points int    `json:"points"`
}

// ParseError reports a receipt field that could not be parsed.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Points - calculates reward points based on the following criteria:
// 1. Retailer Name:
//   - +1 point for every alphanumeric character in the retailer name.
//
// 2. Total Amount:
//   - +50 points if the total is a round dollar amount with no cents.
//   - +25 points if the total is a multiple of 0.25.
//
// 3. Receipt Items:
//   - +5 points for every two items on the receipt.
//   - If the trimmed length of an item's description is a multiple of 3:
//   - Multiply the item price by 0.2, round up to the nearest integer, and add the result as points.
//
// 4. Purchase Date & Time:
//   - +6 points if the day of the purchase date is odd.
//   - +10 points if the purchase hour is 14 or 15.
//
// A malformed field aborts scoring with a *ParseError.
func Points(receipt Receipt) (int, error) {
	rules, err := Breakdown(receipt)
	if err != nil {
		return 0, err
	}
	points := 0
	for _, r := range rules {
		points += r.Points
	}
	return points, nil
}

// Breakdown - returns the points awarded by each rule, in rule order
func Breakdown(receipt Receipt) ([]RuleResult, error) {
	total, err := parseAmount("total", receipt.Total)
	if err != nil {
		return nil, err
	}
	purchaseDate, err := parseDate(receipt.PurchaseDate)
	if err != nil {
		return nil, err
	}
	purchaseTime, err := parseTime(receipt.PurchaseTime)
	if err != nil {
		return nil, err
	}

	itemPoints := 0
	for i, item := range receipt.Items {
		if utf8.RuneCountInString(strings.TrimSpace(item.ShortDescription))%3 != 0 {
			continue
		}
		price, err := parseAmount(itemField(i, "price"), item.Price)
		if err != nil {
			return nil, err
		}
		itemPoints += int(price.Mul(itemPercent).Ceil().IntPart())
	}

	rules := []RuleResult{
		{Rule: RuleRetailerName, Points: countAlphanumeric(receipt.Retailer)},
		{Rule: RuleRoundDollar, Points: award(total.Equal(total.Floor()), 50)},
		{Rule: RuleQuarter, Points: award(total.Mod(quarter).IsZero(), 25)},
		{Rule: RuleItemPairs, Points: len(receipt.Items) / 2 * 5},
		{Rule: RuleDescription, Points: itemPoints},
		{Rule: RuleOddDay, Points: award(purchaseDate.Day()%2 != 0, 6)},
		{Rule: RuleAfternoon, Points: award(isPurchaseAfterTwoBeforeFour(purchaseTime), 10)},
	}
	return rules, nil
}

// isPurchaseAfterTwoBeforeFour - returns true if the purchase hour is in [14, 16)
func isPurchaseAfterTwoBeforeFour(t time.Time) bool {
	return t.Hour() >= 14 && t.Hour() < 16
}

// countAlphanumeric counts ASCII letters and digits only.
func countAlphanumeric(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			n++
		}
	}
	return n
}

func award(ok bool, points int) int {
	if ok {
		return points
	}
	return 0
}

func itemField(i int, name string) string {
	return fmt.Sprintf("items[%d].%s", i, name)
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, &ParseError{Field: field, Value: value, Err: err}
	}
	return d, nil
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, &ParseError{Field: "purchaseDate", Value: value, Err: err}
	}
	return t, nil
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, &ParseError{Field: "purchaseTime", Value: value, Err: err}
	}
	return t, nil
}
