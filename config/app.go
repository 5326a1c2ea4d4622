package config

type App struct {
	Port          string `env:"APP_PORT" default:"8080"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	JWTSecret     string `env:"JWT_SECRET,required"`
	StorageURL    string `env:"STORAGE_URL"`
	StorageToken  string `env:"STORAGE_TOKEN"`
	OverdueSweep  string `env:"OVERDUE_SWEEP_CRON" default:"0 15 0 * * *"`
	Env           string `env:"APP_ENV" default:"dev"`
}
