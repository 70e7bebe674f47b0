package agents

import (
	"math"
	"math/rand"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// HyperParameters holds the tunable constants of a TrainAgentAI's
// Q-learning loop, loaded from a YAML document.
type HyperParameters struct {
	LearningRate float64 `mapstructure:"learningRate" yaml:"learningRate"`
	Discount     float64 `mapstructure:"discount" yaml:"discount"`
	Epsilon      float64 `mapstructure:"epsilon" yaml:"epsilon"`
	// MaxAccelMMS2 and StepMMS2 determine the action count:
	// 1 + 2*(MaxAccelMMS2/StepMMS2).
	MaxAccelMMS2 int32 `mapstructure:"maxAccelMms2" yaml:"maxAccelMms2"`
	StepMMS2     int32 `mapstructure:"stepMms2" yaml:"stepMms2"`
}

// DefaultHyperParameters mirrors a reasonable out-of-the-box training
// configuration; HyperParametersFromYAML overrides these from a config file.
func DefaultHyperParameters() HyperParameters {
	return HyperParameters{
		LearningRate: 0.1,
		Discount:     0.9,
		Epsilon:      0.1,
		MaxAccelMMS2: 100,
		StepMMS2:     20,
	}
}

// HyperParametersFromYAML loads hyperparameters from a YAML file via
// viper, falling back to DefaultHyperParameters for any field the file
// doesn't set (viper's zero-value unmarshal leaves those as zero, so the
// defaults are applied first and the file's Unmarshal only overwrites
// what it actually specifies).
func HyperParametersFromYAML(path string) (HyperParameters, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return HyperParameters{}, err
	}

	hp := DefaultHyperParameters()
	if err := vp.Unmarshal(&hp); err != nil {
		return HyperParameters{}, err
	}
	return hp, nil
}

// state is the tabular Q-learning state: bucketed delta distance to
// target, current speed, and max-speed percentage, all in integer units
// so it hashes cleanly as a map key.
type state struct {
	deltaDistanceMM    int64
	currentSpeedMMS    int64
	maxSpeedPercentage int64
}

// TrainAgentAI is a tabular Q-learning decision agent. Observation state
// is {delta_distance_mm, current_speed_mm_s, max_speed_percentage}; the
// action space is 1 + 2*(MaxAccelMMS2/StepMMS2) discrete accelerations
// (Stop, N forward steps, N backward steps). Training happens through
// Train, never from the simulation tick: the simulation only calls
// Observe/NextAction, which are pure best-action lookups against the
// learned table.
type TrainAgentAI struct {
	ObjectID int64
	Params   HyperParameters

	actions []Action
	q       map[state][]float64
	rng     *rand.Rand

	lastState state
	observed  bool
}

// NewTrainAgentAI constructs an agent with the given hyperparameters and
// an empty Q-table.
func NewTrainAgentAI(objectID int64, params HyperParameters) *TrainAgentAI {
	return &TrainAgentAI{
		ObjectID: objectID,
		Params:   params,
		actions:  buildActionSpace(params),
		q:        make(map[state][]float64),
		rng:      rand.New(rand.NewSource(1)),
	}
}

func buildActionSpace(p HyperParameters) []Action {
	if p.StepMMS2 <= 0 {
		return []Action{Stop{}}
	}
	actions := []Action{Stop{}}
	for a := p.StepMMS2; a <= p.MaxAccelMMS2; a += p.StepMMS2 {
		actions = append(actions, AccelerateForward{AccelerationMMS2: a})
	}
	for a := p.StepMMS2; a <= p.MaxAccelMMS2; a += p.StepMMS2 {
		actions = append(actions, AccelerateBackward{AccelerationMMS2: a})
	}
	return actions
}

func (a *TrainAgentAI) Observe(env ObservableEnvironment) {
	obj, ok := env.GetObject(a.ObjectID)
	if !ok {
		a.observed = false
		return
	}

	deltaMM := int64(0)
	if obj.GeoLocation != nil && obj.NextTarget != nil {
		// The distance to the target is not computed here:
		// ObservableEnvironment carries no route context, so the
		// observed delta is always 0.
		deltaMM = 0
	}

	speedMMS := int64(obj.Speed * 1000)
	maxPct := int64(100)
	if obj.MaxSpeed > 0 {
		maxPct = int64(obj.Speed / obj.MaxSpeed * 100)
	}

	a.lastState = state{
		deltaDistanceMM:    deltaMM,
		currentSpeedMMS:    speedMMS,
		maxSpeedPercentage: maxPct,
	}
	a.observed = true
}

func (a *TrainAgentAI) NextAction() Action {
	if !a.observed {
		return Stop{}
	}
	return a.actions[a.bestActionIndex(a.lastState)]
}

func (a *TrainAgentAI) bestActionIndex(s state) int {
	values, ok := a.q[s]
	if !ok {
		return 0
	}
	best := 0
	for i, v := range values[1:] {
		if v > values[best] {
			best = i + 1
		}
	}
	return best
}

// reward implements 20*(max_speed_percentage/100)^2 + delta_distance_mm.
func reward(s state) float64 {
	pct := float64(s.maxSpeedPercentage) / 100
	return 20*pct*pct + float64(s.deltaDistanceMM)
}

// Train runs episodes of epsilon-greedy Q-learning over a synthetic
// transition model driven by the action space's own effect on speed and
// distance. It never runs from the simulation tick; callers invoke it
// offline before wiring the agent into a Simulation.
func (a *TrainAgentAI) Train(episodes int) {
	for ep := 0; ep < episodes; ep++ {
		s := state{deltaDistanceMM: 10_000, currentSpeedMMS: 0, maxSpeedPercentage: 0}
		for step := 0; step < 200 && s.deltaDistanceMM > 0; step++ {
			actionIdx := a.epsilonGreedy(s)
			next := a.applyAction(s, a.actions[actionIdx])
			r := reward(next)

			if _, ok := a.q[s]; !ok {
				a.q[s] = make([]float64, len(a.actions))
			}
			if _, ok := a.q[next]; !ok {
				a.q[next] = make([]float64, len(a.actions))
			}

			bestNext := a.q[next][a.bestActionIndex(next)]
			td := r + a.Params.Discount*bestNext - a.q[s][actionIdx]
			a.q[s][actionIdx] += a.Params.LearningRate * td

			s = next
		}
	}
}

func (a *TrainAgentAI) epsilonGreedy(s state) int {
	if a.rng.Float64() < a.Params.Epsilon {
		return a.rng.Intn(len(a.actions))
	}
	if _, ok := a.q[s]; !ok {
		return 0
	}
	return a.bestActionIndex(s)
}

// applyAction is the synthetic transition model used only for offline
// training: it advances a toy state one step according to the chosen
// action's kinematic effect, clamped to sane bounds.
func (a *TrainAgentAI) applyAction(s state, act Action) state {
	speed := s.currentSpeedMMS
	switch v := act.(type) {
	case Stop:
		speed = 0
	case AccelerateForward:
		speed += int64(v.AccelerationMMS2)
	case AccelerateBackward:
		speed -= int64(v.AccelerationMMS2)
		if speed < 0 {
			speed = 0
		}
	}

	const maxSpeedMMS = 30_000
	if speed > maxSpeedMMS {
		speed = maxSpeedMMS
	}

	delta := s.deltaDistanceMM - speed/1000
	if delta < 0 {
		delta = 0
	}

	pct := int64(math.Round(float64(speed) / maxSpeedMMS * 100))
	return state{deltaDistanceMM: delta, currentSpeedMMS: speed, maxSpeedPercentage: pct}
}

// ToYAML serializes the hyperparameters, e.g. to snapshot a trained
// agent's configuration alongside its Q-table for later inspection.
func (p HyperParameters) ToYAML() ([]byte, error) {
	return yaml.Marshal(p)
}
