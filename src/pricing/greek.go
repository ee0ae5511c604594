package pricing

import "fmt"

type Greek string

func (g Greek) Validate() error {
	for _, known := range AllGreeks {
		if g == known {
			return nil
		}
	}

	return fmt.Errorf("Greek: Validate: invalid greek: %s", g)
}

const (
	Delta Greek = "delta"
	Gamma Greek = "gamma"
	Theta Greek = "theta"
	Vega  Greek = "vega"
	Rho   Greek = "rho"
	Vanna Greek = "vanna"
	Vomma Greek = "vomma"
	Veta  Greek = "veta"
	Charm Greek = "charm"
	Color Greek = "color"
)

var AllGreeks = []Greek{Delta, Gamma, Theta, Vega, Rho, Vanna, Vomma, Veta, Charm, Color}
