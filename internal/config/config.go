package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTables DynamoTables
	S3BucketName string

	JWTPublicKeyPath  string
	JWTPrivateKeyPath string
	JWTExpiry         time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion string

	Monitoring Monitoring

	AllowedOrigins []string // CORS allowed origins
}

// Monitoring holds detector periods, thresholds and scan limits.
type Monitoring struct {
	AttendanceGapWindow   time.Duration // no attendance within this window flags the cohort
	AttendancePeriod      time.Duration
	CompletionLagFraction float64 // lag beyond programAverage*fraction flags the survey
	CompletionCritical    float64 // lag beyond programAverage*critical escalates
	CompletionPeriod      time.Duration
	StatusMonitorWindow   time.Duration // look-back for newly created draft surveys
	StatusMonitorPeriod   time.Duration
	AttendanceStaleAfter  time.Duration // consistency: latest attendance older than this
	ConsistencyPeriod     time.Duration
	PartnerScanTimeout    time.Duration // per-partner budget inside a pass
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Partners        string
	Users           string
	Cohorts         string
	Enrollments     string
	Attendance      string
	Scores          string
	Surveys         string
	SurveyResponses string
	Alerts          string
	OpenAlertKeys   string
	Notifications   string
	AuditLog        string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTables: DynamoTables{
			Partners:        getEnv("DYNAMO_TABLE_PARTNERS", "partners"),
			Users:           getEnv("DYNAMO_TABLE_USERS", "users"),
			Cohorts:         getEnv("DYNAMO_TABLE_COHORTS", "cohorts"),
			Enrollments:     getEnv("DYNAMO_TABLE_ENROLLMENTS", "enrollments"),
			Attendance:      getEnv("DYNAMO_TABLE_ATTENDANCE", "attendance_records"),
			Scores:          getEnv("DYNAMO_TABLE_SCORES", "scores"),
			Surveys:         getEnv("DYNAMO_TABLE_SURVEYS", "surveys"),
			SurveyResponses: getEnv("DYNAMO_TABLE_SURVEY_RESPONSES", "survey_responses"),
			Alerts:          getEnv("DYNAMO_TABLE_ALERTS", "alerts"),
			OpenAlertKeys:   getEnv("DYNAMO_TABLE_OPEN_ALERT_KEYS", "open_alert_keys"),
			Notifications:   getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			AuditLog:        getEnv("DYNAMO_TABLE_AUDIT_LOG", "audit_log"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "mne-scan-reports"),

		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTExpiry:         getEnvDuration("JWT_EXPIRY", 7*24*time.Hour),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		Monitoring: Monitoring{
			AttendanceGapWindow:   getEnvDuration("MONITOR_ATTENDANCE_GAP_WINDOW", 48*time.Hour),
			AttendancePeriod:      getEnvDuration("MONITOR_ATTENDANCE_PERIOD", 6*time.Hour),
			CompletionLagFraction: getEnvFloat("MONITOR_COMPLETION_LAG_FRACTION", 0.20),
			CompletionCritical:    getEnvFloat("MONITOR_COMPLETION_CRITICAL_FRACTION", 0.40),
			CompletionPeriod:      getEnvDuration("MONITOR_COMPLETION_PERIOD", 24*time.Hour),
			StatusMonitorWindow:   getEnvDuration("MONITOR_STATUS_WINDOW", time.Hour),
			StatusMonitorPeriod:   getEnvDuration("MONITOR_STATUS_PERIOD", time.Hour),
			AttendanceStaleAfter:  getEnvDuration("MONITOR_ATTENDANCE_STALE_AFTER", 7*24*time.Hour),
			ConsistencyPeriod:     getEnvDuration("MONITOR_CONSISTENCY_PERIOD", 24*time.Hour),
			PartnerScanTimeout:    getEnvDuration("MONITOR_PARTNER_SCAN_TIMEOUT", 30*time.Second),
		},

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
