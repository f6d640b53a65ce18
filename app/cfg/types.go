package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	SourcesDir        string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Fetch configuration
	RateLimit    int
	RateWindow   int // seconds
	MaxRetries   int
	FetchTimeout int // seconds

	// Processing configuration
	AnomalyContamination float64
	ReviewThreshold      float64

	// Review configuration
	AutoApproveThreshold  float64
	StrictAutoApprove     bool
	ReviewExpirationHours int
	SweepInterval         int // seconds

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
