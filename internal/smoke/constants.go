package smoke

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Generation constants.
const (
	maxCoefficient = 4
	nameIDLength   = 8
	// Probability, in percent, that a (student, competency) cell is graded.
	gradedPercent = 80
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	filePermission       = 0o600
	directoryPermission  = 0o750
)
