package strategies

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindBearPutSpread        Kind = "bear_put_spread"
	KindBullCallSpread       Kind = "bull_call_spread"
	KindBearCallSpread       Kind = "bear_call_spread"
	KindBullPutSpread        Kind = "bull_put_spread"
	KindLongButterflySpread  Kind = "long_butterfly_spread"
	KindShortButterflySpread Kind = "short_butterfly_spread"
	KindLongCall             Kind = "long_call"
	KindLongPut              Kind = "long_put"
	KindShortCall            Kind = "short_call"
	KindShortPut             Kind = "short_put"
	KindLongStraddle         Kind = "long_straddle"
	KindShortStraddle        Kind = "short_straddle"
	KindLongStrangle         Kind = "long_strangle"
	KindShortStrangle        Kind = "short_strangle"
	KindIronCondor           Kind = "iron_condor"
	KindIronButterfly        Kind = "iron_butterfly"
	KindPoorMansCoveredCall  Kind = "poor_mans_covered_call"
	KindCallButterfly        Kind = "call_butterfly"
	KindRatioCallSpread      Kind = "ratio_call_spread"

	// KindCustom holds free-form positions and has no fixed legs, so it is
	// not part of AllKinds.
	KindCustom Kind = "custom"
)

var AllKinds = []Kind{
	KindBearPutSpread, KindBullCallSpread, KindBearCallSpread, KindBullPutSpread,
	KindLongButterflySpread, KindShortButterflySpread,
	KindLongCall, KindLongPut, KindShortCall, KindShortPut,
	KindLongStraddle, KindShortStraddle, KindLongStrangle, KindShortStrangle,
	KindIronCondor, KindIronButterfly, KindPoorMansCoveredCall,
	KindCallButterfly, KindRatioCallSpread,
}

func (k Kind) Validate() error {
	for _, known := range AllKinds {
		if k == known {
			return nil
		}
	}

	return fmt.Errorf("Kind: Validate: invalid strategy kind: %s", k)
}

// Title turns bear_put_spread into Bear Put Spread.
func (k Kind) Title() string {
	words := strings.Split(string(k), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

var descriptions = map[Kind]string{
	KindBearPutSpread:        "Buys a put and sells a lower strike put. Profits from a moderate decline with capped risk and reward.",
	KindBullCallSpread:       "Buys a call and sells a higher strike call. Profits from a moderate rise with capped risk and reward.",
	KindBearCallSpread:       "Sells a call and buys a higher strike call for a net credit. Profits when the underlying stays below the short strike.",
	KindBullPutSpread:        "Sells a put and buys a lower strike put for a net credit. Profits when the underlying stays above the short strike.",
	KindLongButterflySpread:  "Buys one low and one high call around two short middle calls. Profits when the underlying pins the middle strike.",
	KindShortButterflySpread: "Sells one low and one high call around two long middle calls. Profits when the underlying moves away from the middle strike.",
	KindLongCall:             "Buys a call. Unlimited upside, risk limited to the premium.",
	KindLongPut:              "Buys a put. Gains as the underlying falls, risk limited to the premium.",
	KindShortCall:            "Sells a naked call. Keeps the premium if the underlying stays below the strike.",
	KindShortPut:             "Sells a naked put. Keeps the premium if the underlying stays above the strike.",
	KindLongStraddle:         "Buys a call and a put at the same strike. Profits from a large move in either direction.",
	KindShortStraddle:        "Sells a call and a put at the same strike. Profits when the underlying stays near the strike.",
	KindLongStrangle:         "Buys an out of the money put and call. Profits from a large move in either direction.",
	KindShortStrangle:        "Sells an out of the money put and call. Profits when the underlying stays between the strikes.",
	KindIronCondor:           "Combines a bull put spread and a bear call spread. Profits inside the short strikes.",
	KindIronButterfly:        "Sells an at the money straddle and buys protective wings. Profits when the underlying pins the middle strike.",
	KindPoorMansCoveredCall:  "Buys a deep in the money long dated call and sells a near term higher strike call against it.",
	KindCallButterfly:        "Buys a call and sells one call at each of two higher strikes. Profits from a moderate rise, with open risk above the top strike.",
	KindRatioCallSpread:      "Buys a call and sells twice as many calls at a higher strike. Profits from a moderate rise, with open risk on a rally.",
	KindCustom:               "Any combination of option positions on one underlying.",
}
