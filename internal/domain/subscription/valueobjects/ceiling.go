package valueobjects

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Ceiling is a plan's maximum for one resource. The zero value is a finite
// ceiling of 0; unlimited is a distinct state, never a magic number.
type Ceiling struct {
	limit     int64
	unlimited bool
}

const unlimitedLiteral = "unlimited"

func Unlimited() Ceiling {
	return Ceiling{unlimited: true}
}

func Limit(n int64) (Ceiling, error) {
	if n < 0 {
		return Ceiling{}, fmt.Errorf("ceiling cannot be negative: %d", n)
	}
	return Ceiling{limit: n}, nil
}

// MustLimit is Limit for literals known to be valid.
func MustLimit(n int64) Ceiling {
	c, err := Limit(n)
	if err != nil {
		panic(err)
	}
	return c
}

// CeilingFromNullable maps a nullable column to a Ceiling; nil means unlimited.
func CeilingFromNullable(v *int64) Ceiling {
	if v == nil {
		return Unlimited()
	}
	return Ceiling{limit: *v}
}

func (c Ceiling) IsUnlimited() bool { return c.unlimited }

// Value returns the finite limit. It is meaningless for unlimited ceilings.
func (c Ceiling) Value() int64 { return c.limit }

// Nullable is the inverse of CeilingFromNullable.
func (c Ceiling) Nullable() *int64 {
	if c.unlimited {
		return nil
	}
	v := c.limit
	return &v
}

// Allows reports whether one more unit may be created at the given usage.
func (c Ceiling) Allows(used float64) bool {
	return c.unlimited || used < float64(c.limit)
}

// PercentUsed is 0 for unlimited ceilings. A zero finite ceiling reports 100.
func (c Ceiling) PercentUsed(used float64) float64 {
	if c.unlimited {
		return 0
	}
	if c.limit == 0 {
		return 100
	}
	return used / float64(c.limit) * 100
}

// Accommodates reports whether current usage fits under the ceiling, used
// when switching plans.
func (c Ceiling) Accommodates(used float64) bool {
	return c.unlimited || used <= float64(c.limit)
}

func (c Ceiling) Equals(other Ceiling) bool {
	return c.unlimited == other.unlimited && c.limit == other.limit
}

func (c Ceiling) String() string {
	if c.unlimited {
		return unlimitedLiteral
	}
	return strconv.FormatInt(c.limit, 10)
}

func (c Ceiling) MarshalJSON() ([]byte, error) {
	if c.unlimited {
		return []byte(`"` + unlimitedLiteral + `"`), nil
	}
	return []byte(strconv.FormatInt(c.limit, 10)), nil
}

// UnmarshalJSON accepts a non-negative integer, "unlimited" or null (unlimited).
func (c *Ceiling) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = Unlimited()
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == unlimitedLiteral {
			*c = Unlimited()
			return nil
		}
		return fmt.Errorf("invalid ceiling: %q", s)
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid ceiling: %w", err)
	}
	parsed, err := Limit(n)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
