// Package testutil provides shared test helpers.
package testutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/benbeisheim/chessmate-backend/internal/model"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// AssertEqual compares got and want using cmp.Diff and reports differences.
func AssertEqual(t *testing.T, got, want interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("%smismatch (-want +got):\n%s", prefix(msgAndArgs...), diff)
	}
}

// AssertSamePositions compares two square lists ignoring order.
func AssertSamePositions(t *testing.T, got, want []model.Position, msgAndArgs ...interface{}) {
	t.Helper()
	less := func(a, b model.Position) bool {
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	}
	if diff := cmp.Diff(want, got, cmpopts.SortSlices(less), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("%smismatch (-want +got):\n%s", prefix(msgAndArgs...), diff)
	}
}

// AssertNoError fails the test immediately if err is not nil.
func AssertNoError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	if err != nil {
		t.Fatalf("%sunexpected error: %v", prefix(msgAndArgs...), err)
	}
}

// AssertErrorIs fails if err does not wrap target.
func AssertErrorIs(t *testing.T, err, target error, msgAndArgs ...interface{}) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("%serror = %v, want %v", prefix(msgAndArgs...), err, target)
	}
}

// prefix joins the optional message the way fmt.Sprint does. Callers that need
// formatting build the message with fmt.Sprintf.
func prefix(msgAndArgs ...interface{}) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	return fmt.Sprint(msgAndArgs...) + ": "
}

// Sq converts algebraic notation to a Position and panics on bad input.
func Sq(square string) model.Position {
	pos, ok := model.ParseSquare(square)
	if !ok {
		panic(fmt.Sprintf("bad square %q", square))
	}
	return pos
}
