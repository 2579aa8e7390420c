package motion

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tcode-works/motioncore/internal/axis"
)

// outputScale pre-scales numeric outputs so a full-range value maps to
// token 999 rather than wrapping past it.
const outputScale = 0.999

// tokenPair is one axis update awaiting encoding.
type tokenPair struct {
	cfg   axis.Config
	value axis.Value
}

// encodeToken renders one axis value as a TCode token: the axis name
// followed by three digits. Numeric values are mapped through the
// axis's [Min,Max] window, pre-scaled by outputScale and rounded to
// three decimals before the final thousandths conversion. Boolean
// values encode as 999 (on) or 000 (off).
func encodeToken(cfg axis.Config, v axis.Value) string {
	if v.IsBool {
		if v.On {
			return cfg.Name + "999"
		}
		return cfg.Name + "000"
	}

	scaled := (cfg.Max-cfg.Min)*v.Num + cfg.Min
	// Decimal rounding, not binary: 0.5*0.999 is 0.49949999... and must
	// land on 0.499, but as a float64 product it sits exactly on 499.5
	// thousandths and math.Round alone would pull it up to 500.
	pre, _ := strconv.ParseFloat(strconv.FormatFloat(scaled*outputScale, 'f', 3, 64), 64)
	n := int(math.Round(pre * 1000))
	if n < 0 {
		n = 0
	} else if n > 999 {
		n = 999
	}
	return fmt.Sprintf("%s%03d", cfg.Name, n)
}

// encodeLine joins tokens in batch order into one space-separated
// command line, without a terminator. Framing belongs to the transport.
func encodeLine(pairs []tokenPair) string {
	tokens := make([]string, len(pairs))
	for i, p := range pairs {
		tokens[i] = encodeToken(p.cfg, p.value)
	}
	return strings.Join(tokens, " ")
}
