// Package fatigue implements the muscle fatigue and recovery estimation
// engine: it folds logged sets, weighted by per-muscle engagement, into
// time-decayed fatigue scores, predicts recovery dates, and derives
// progressive-overload recommendations. All functions are pure and
// side-effect-free over their inputs.
package fatigue

// Config holds the tunable parameters of the fatigue model. Callers thread
// an explicit Config into every computation; nothing is read from ambient
// state.
type Config struct {
	// LookbackDays is the trailing window of sets considered when
	// computing current fatigue. The cutoff is hard: sets exactly
	// LookbackDays old are the last included day.
	LookbackDays int

	// RecoveryDays is the span of the linear recovery curve; a muscle
	// reaches full recovery this many days after training.
	RecoveryDays int

	// DailyRecoveryRate is the fraction of fatigue recovered per day
	// (0.20 reaches full recovery at day 5).
	DailyRecoveryRate float64

	// VolumeDivisor normalizes weight*reps into the volume factor.
	// Empirical tuning, not dimensionally meaningful.
	VolumeDivisor float64

	// FatigueScale scales per-set contributions into a usable 0-100
	// range across typical weight/rep combinations. Empirical tuning.
	FatigueScale float64

	// DefaultExertion is the assumed RPE when a set has none logged.
	DefaultExertion int

	// MinTrackingPct is the fatigue floor below which a muscle is
	// considered negligible: no recovery-date projection is made.
	MinTrackingPct float64

	// ReadyThresholdPct is the fatigue ceiling below which a muscle
	// counts as ready to train.
	ReadyThresholdPct float64

	// TargetIncreasePct is the default volume increase proposed by the
	// overload recommender.
	TargetIncreasePct float64

	// QualifyingEngagementPct is the minimum engagement a recovered
	// muscle must have for an exercise to qualify for recommendation.
	QualifyingEngagementPct int

	// BestSetWindowDays is the trailing window used to pick the best
	// historical set per exercise.
	BestSetWindowDays int
}

// DefaultConfig returns the model parameters used in production.
func DefaultConfig() Config {
	return Config{
		LookbackDays:            7,
		RecoveryDays:            5,
		DailyRecoveryRate:       0.20,
		VolumeDivisor:           1000,
		FatigueScale:            10,
		DefaultExertion:         5,
		MinTrackingPct:          10,
		ReadyThresholdPct:       20,
		TargetIncreasePct:       3.0,
		QualifyingEngagementPct: 30,
		BestSetWindowDays:       30,
	}
}
