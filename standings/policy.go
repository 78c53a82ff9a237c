package standings

import "sort"

// PointsPolicy задаёт количество очков за каждый исход матча.
type PointsPolicy struct {
	Win    int `yaml:"win" json:"win"`
	OTWin  int `yaml:"ot_win" json:"ot_win"`
	SOWin  int `yaml:"so_win" json:"so_win"`
	Loss   int `yaml:"loss" json:"loss"`
	OTLoss int `yaml:"ot_loss" json:"ot_loss"`
	SOLoss int `yaml:"so_loss" json:"so_loss"`
	Draw   int `yaml:"draw" json:"draw"`
}

func DefaultPointsPolicy() PointsPolicy {
	return PointsPolicy{
		Win:    2,
		OTWin:  2,
		SOWin:  2,
		Loss:   0,
		OTLoss: 1,
		SOLoss: 1,
		Draw:   1,
	}
}

var policyKeys = map[string]func(p *PointsPolicy) *int{
	"win":     func(p *PointsPolicy) *int { return &p.Win },
	"ot_win":  func(p *PointsPolicy) *int { return &p.OTWin },
	"so_win":  func(p *PointsPolicy) *int { return &p.SOWin },
	"loss":    func(p *PointsPolicy) *int { return &p.Loss },
	"ot_loss": func(p *PointsPolicy) *int { return &p.OTLoss },
	"so_loss": func(p *PointsPolicy) *int { return &p.SOLoss },
	"draw":    func(p *PointsPolicy) *int { return &p.Draw },
}

// MergeDefaults builds a policy from a partial key -> points map.
// Missing keys keep their default value. Unknown keys are returned sorted.
func MergeDefaults(partial map[string]int) (PointsPolicy, []string) {
	policy := DefaultPointsPolicy()
	var unknown []string
	for key, value := range partial {
		field, ok := policyKeys[key]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		*field(&policy) = value
	}
	sort.Strings(unknown)
	return policy, unknown
}
