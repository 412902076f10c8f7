package training

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/decisionscients/mlstudio/core/validation"
	"github.com/decisionscients/mlstudio/pkg/log"
)

// Logs は1エポック分の観測値。スケジュールの入力となる。
type Logs struct {
	// TrainCost は直近エポックの訓練コスト（Adaptiveのみ参照する）
	TrainCost float64
}

// Schedule は学習率スケジュール。エポック番号（1始まり）と観測値から
// そのエポックで使用する学習率を返す。
type Schedule interface {
	// Name はスケジュールの種別名を返す
	Name() string
	// Apply はエポックに対応する学習率を返す
	Apply(epoch int, logs Logs) float64
}

// Option はスケジュールの構成オプション
type Option func(*scheduleOptions)

type scheduleOptions struct {
	staircase bool
	cycle     bool
}

// WithStaircase は減衰を階段状（decay_stepsごとの離散的な更新）にする
func WithStaircase() Option {
	return func(o *scheduleOptions) { o.staircase = true }
}

// WithCycle はPolynomialDecayの減衰区間をdecay_stepsごとに繰り返す
func WithCycle() Option {
	return func(o *scheduleOptions) { o.cycle = true }
}

func applyOptions(opts []Option) scheduleOptions {
	var o scheduleOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ---------------------------------------------------------------------------
//                      Hyperparameter validation
// ---------------------------------------------------------------------------

// ハイパーパラメータの検証はルールエンジンで行う。
// 構築時の違反は設定上の誤りなのでエラーとして返す。

func runRule(r *validation.Rule, v interface{}) error {
	if err := r.Validate(v); err != nil {
		return err
	}
	if !r.IsValid() {
		return r.InvalidError()
	}
	return nil
}

// checkLearningRate は学習率が(0, 1]に収まることを検査する
func checkLearningRate(host interface{}, owner string, rate float64) error {
	lower := validation.NewGreaterRule(host, "LearningRate", owner, 0, validation.WithExclusive())
	upper, err := validation.NewBetweenRule(host, "LearningRate", owner, []float64{0, 1})
	if err != nil {
		return err
	}
	set, err := validation.NewRuleSet(validation.OperatorAnd, lower, upper)
	if err != nil {
		return err
	}
	if err := set.Validate(rate); err != nil {
		return err
	}
	if !set.IsValid() {
		return set.InvalidError()
	}
	return nil
}

// checkDecayRate は減衰率が[0, 1]に収まることを検査する
func checkDecayRate(host interface{}, owner string, rate float64) error {
	r, err := validation.NewBetweenRule(host, "DecayRate", owner, []float64{0, 1})
	if err != nil {
		return err
	}
	return runRule(r, rate)
}

// checkDecaySteps は減衰ステップ数が1以上であることを検査する
func checkDecaySteps(host interface{}, owner string, steps int) error {
	return runRule(validation.NewGreaterRule(host, "DecaySteps", owner, 1), steps)
}

// ---------------------------------------------------------------------------
//                               TimeDecay
// ---------------------------------------------------------------------------

// TimeDecay は lr / (1 + decay_rate * epoch / decay_steps) による時間減衰
type TimeDecay struct {
	LearningRate float64
	DecayRate    float64
	DecaySteps   int
	Staircase    bool
}

// NewTimeDecay は時間減衰スケジュールを作成する
func NewTimeDecay(learningRate, decayRate float64, decaySteps int, opts ...Option) (*TimeDecay, error) {
	s := &TimeDecay{
		LearningRate: learningRate,
		DecayRate:    decayRate,
		DecaySteps:   decaySteps,
		Staircase:    applyOptions(opts).staircase,
	}
	if err := checkLearningRate(s, "TimeDecay", learningRate); err != nil {
		return nil, err
	}
	if err := checkDecayRate(s, "TimeDecay", decayRate); err != nil {
		return nil, err
	}
	if err := checkDecaySteps(s, "TimeDecay", decaySteps); err != nil {
		return nil, err
	}
	return s, nil
}

// Name はスケジュールの種別名を返す
func (s *TimeDecay) Name() string { return "TimeDecay" }

// Apply はエポックに対応する学習率を返す
func (s *TimeDecay) Apply(epoch int, _ Logs) float64 {
	step := float64(epoch) / float64(s.DecaySteps)
	if s.Staircase {
		step = math.Floor(step)
	}
	return s.LearningRate / (1 + s.DecayRate*step)
}

// ---------------------------------------------------------------------------
//                               StepDecay
// ---------------------------------------------------------------------------

// StepDecay は lr * decay_rate^floor((1 + epoch) / decay_steps) による階段減衰
type StepDecay struct {
	LearningRate float64
	DecayRate    float64
	DecaySteps   int
}

// NewStepDecay は階段減衰スケジュールを作成する
func NewStepDecay(learningRate, decayRate float64, decaySteps int) (*StepDecay, error) {
	s := &StepDecay{LearningRate: learningRate, DecayRate: decayRate, DecaySteps: decaySteps}
	if err := checkLearningRate(s, "StepDecay", learningRate); err != nil {
		return nil, err
	}
	if err := checkDecayRate(s, "StepDecay", decayRate); err != nil {
		return nil, err
	}
	if err := checkDecaySteps(s, "StepDecay", decaySteps); err != nil {
		return nil, err
	}
	return s, nil
}

// Name はスケジュールの種別名を返す
func (s *StepDecay) Name() string { return "StepDecay" }

// Apply はエポックに対応する学習率を返す
func (s *StepDecay) Apply(epoch int, _ Logs) float64 {
	exp := math.Floor(float64(1+epoch) / float64(s.DecaySteps))
	return s.LearningRate * math.Pow(s.DecayRate, exp)
}

// ---------------------------------------------------------------------------
//                       NaturalExponentialDecay
// ---------------------------------------------------------------------------

// NaturalExponentialDecay は lr * exp(-decay_rate * epoch / decay_steps) による自然指数減衰
type NaturalExponentialDecay struct {
	LearningRate float64
	DecayRate    float64
	DecaySteps   int
	Staircase    bool
}

// NewNaturalExponentialDecay は自然指数減衰スケジュールを作成する
func NewNaturalExponentialDecay(learningRate, decayRate float64, decaySteps int, opts ...Option) (*NaturalExponentialDecay, error) {
	s := &NaturalExponentialDecay{
		LearningRate: learningRate,
		DecayRate:    decayRate,
		DecaySteps:   decaySteps,
		Staircase:    applyOptions(opts).staircase,
	}
	if err := checkLearningRate(s, "NaturalExponentialDecay", learningRate); err != nil {
		return nil, err
	}
	if err := checkDecayRate(s, "NaturalExponentialDecay", decayRate); err != nil {
		return nil, err
	}
	if err := checkDecaySteps(s, "NaturalExponentialDecay", decaySteps); err != nil {
		return nil, err
	}
	return s, nil
}

// Name はスケジュールの種別名を返す
func (s *NaturalExponentialDecay) Name() string { return "NaturalExponentialDecay" }

// Apply はエポックに対応する学習率を返す
func (s *NaturalExponentialDecay) Apply(epoch int, _ Logs) float64 {
	step := float64(epoch) / float64(s.DecaySteps)
	if s.Staircase {
		step = math.Floor(step)
	}
	return s.LearningRate * math.Exp(-s.DecayRate*step)
}

// ---------------------------------------------------------------------------
//                          ExponentialDecay
// ---------------------------------------------------------------------------

// ExponentialDecay は lr * decay_rate^(epoch / decay_steps) による指数減衰
type ExponentialDecay struct {
	LearningRate float64
	DecayRate    float64
	DecaySteps   int
	Staircase    bool
}

// NewExponentialDecay は指数減衰スケジュールを作成する
func NewExponentialDecay(learningRate, decayRate float64, decaySteps int, opts ...Option) (*ExponentialDecay, error) {
	s := &ExponentialDecay{
		LearningRate: learningRate,
		DecayRate:    decayRate,
		DecaySteps:   decaySteps,
		Staircase:    applyOptions(opts).staircase,
	}
	if err := checkLearningRate(s, "ExponentialDecay", learningRate); err != nil {
		return nil, err
	}
	if err := checkDecayRate(s, "ExponentialDecay", decayRate); err != nil {
		return nil, err
	}
	if err := checkDecaySteps(s, "ExponentialDecay", decaySteps); err != nil {
		return nil, err
	}
	return s, nil
}

// Name はスケジュールの種別名を返す
func (s *ExponentialDecay) Name() string { return "ExponentialDecay" }

// Apply はエポックに対応する学習率を返す
func (s *ExponentialDecay) Apply(epoch int, _ Logs) float64 {
	step := float64(epoch) / float64(s.DecaySteps)
	if s.Staircase {
		step = math.Floor(step)
	}
	return s.LearningRate * math.Pow(s.DecayRate, step)
}

// ---------------------------------------------------------------------------
//                           InverseScaling
// ---------------------------------------------------------------------------

// InverseScaling は lr / epoch^power による逆スケーリング減衰
type InverseScaling struct {
	LearningRate float64
	Power        float64
}

// NewInverseScaling は逆スケーリングスケジュールを作成する
func NewInverseScaling(learningRate, power float64) (*InverseScaling, error) {
	s := &InverseScaling{LearningRate: learningRate, Power: power}
	if err := checkLearningRate(s, "InverseScaling", learningRate); err != nil {
		return nil, err
	}
	if err := runRule(validation.NewGreaterRule(s, "Power", "InverseScaling", 0,
		validation.WithExclusive()), power); err != nil {
		return nil, err
	}
	return s, nil
}

// Name はスケジュールの種別名を返す
func (s *InverseScaling) Name() string { return "InverseScaling" }

// Apply はエポックに対応する学習率を返す
func (s *InverseScaling) Apply(epoch int, _ Logs) float64 {
	if epoch < 1 {
		return s.LearningRate
	}
	return s.LearningRate / math.Pow(float64(epoch), s.Power)
}

// ---------------------------------------------------------------------------
//                          PolynomialDecay
// ---------------------------------------------------------------------------

// PolynomialDecay は (lr - end_lr) * (1 - epoch/decay_steps)^power + end_lr
// による多項式減衰。decay_stepsを超えたエポックでは末端学習率に留まる。
type PolynomialDecay struct {
	LearningRate    float64
	DecaySteps      int
	Power           float64
	EndLearningRate float64
	Cycle           bool
}

// NewPolynomialDecay は多項式減衰スケジュールを作成する。
// 末端学習率は初期学習率より小さくなければならない。
func NewPolynomialDecay(learningRate float64, decaySteps int, power, endLearningRate float64, opts ...Option) (*PolynomialDecay, error) {
	s := &PolynomialDecay{
		LearningRate:    learningRate,
		DecaySteps:      decaySteps,
		Power:           power,
		EndLearningRate: endLearningRate,
		Cycle:           applyOptions(opts).cycle,
	}
	if err := checkLearningRate(s, "PolynomialDecay", learningRate); err != nil {
		return nil, err
	}
	if err := checkDecaySteps(s, "PolynomialDecay", decaySteps); err != nil {
		return nil, err
	}
	if err := runRule(validation.NewGreaterRule(s, "Power", "PolynomialDecay", 0,
		validation.WithExclusive()), power); err != nil {
		return nil, err
	}
	// 末端学習率は初期学習率への遅延束縛参照に対して検査される
	if err := runRule(validation.NewLessRule(s, "EndLearningRate", "PolynomialDecay",
		validation.Attr(s, "LearningRate"), validation.WithExclusive()), endLearningRate); err != nil {
		return nil, err
	}
	return s, nil
}

// Name はスケジュールの種別名を返す
func (s *PolynomialDecay) Name() string { return "PolynomialDecay" }

// Apply はエポックに対応する学習率を返す
func (s *PolynomialDecay) Apply(epoch int, _ Logs) float64 {
	steps := float64(s.DecaySteps)
	e := float64(epoch)
	if s.Cycle && epoch > 0 {
		steps *= math.Ceil(e / steps)
	} else if e > steps {
		e = steps
	}
	return (s.LearningRate-s.EndLearningRate)*math.Pow(1-e/steps, s.Power) + s.EndLearningRate
}

// ---------------------------------------------------------------------------
//                              Adaptive
// ---------------------------------------------------------------------------

// Adaptive は訓練コストの改善が停滞したときに学習率を減衰させるスケジュール。
// 停滞区間のコストの平均に対する相対改善がprecision未満のエポックが
// patience回続くと、学習率にdecay_rateを乗じる。
type Adaptive struct {
	LearningRate float64
	DecayRate    float64
	Precision    float64
	Patience     int

	rate   float64
	window []float64
	wait   int
}

// NewAdaptive は適応型スケジュールを作成する
func NewAdaptive(learningRate, decayRate, precision float64, patience int) (*Adaptive, error) {
	s := &Adaptive{
		LearningRate: learningRate,
		DecayRate:    decayRate,
		Precision:    precision,
		Patience:     patience,
	}
	if err := checkLearningRate(s, "Adaptive", learningRate); err != nil {
		return nil, err
	}
	if err := checkDecayRate(s, "Adaptive", decayRate); err != nil {
		return nil, err
	}
	if err := runRule(mustBetweenExclusive(s, "Precision", "Adaptive"), precision); err != nil {
		return nil, err
	}
	if err := runRule(validation.NewGreaterRule(s, "Patience", "Adaptive", 1), patience); err != nil {
		return nil, err
	}
	return s, nil
}

// mustBetweenExclusive は開区間(0, 1)のルールを作成する。
// リテラル参照なので構築が失敗することはない。
func mustBetweenExclusive(host interface{}, attr, owner string) *validation.Rule {
	r, err := validation.NewBetweenRule(host, attr, owner, []float64{0, 1}, validation.WithExclusive())
	if err != nil {
		panic(err)
	}
	return r
}

// Name はスケジュールの種別名を返す
func (s *Adaptive) Name() string { return "Adaptive" }

// Apply はエポックに対応する学習率を返す。
// 観測したコストを内部に保持するため、1つのインスタンスは
// 1回の訓練にのみ使用すること（Resetで再利用できる）。
func (s *Adaptive) Apply(epoch int, logs Logs) float64 {
	if s.rate == 0 {
		s.rate = s.LearningRate
	}
	if len(s.window) > 0 {
		base := stat.Mean(s.window, nil)
		improvement := 0.0
		if base != 0 {
			improvement = (base - logs.TrainCost) / math.Abs(base)
		}
		if improvement >= s.Precision {
			s.window = s.window[:0]
			s.wait = 0
		} else {
			s.wait++
			if s.wait >= s.Patience {
				s.rate *= s.DecayRate
				s.wait = 0
				log.ScheduleLogger(s.Name()).Debug("learning rate decayed",
					slog.Int(log.EpochKey, epoch),
					slog.Float64("learning_rate", s.rate))
			}
		}
	}
	s.window = append(s.window, logs.TrainCost)
	return s.rate
}

// Reset は観測状態を破棄し、スケジュールを初期状態に戻す
func (s *Adaptive) Reset() {
	s.rate = 0
	s.window = nil
	s.wait = 0
}
