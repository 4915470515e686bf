package config

import "errors"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error
// aggregating every violation otherwise.
func (cfg *StructuredConfig) validate() error {
	var errs []error

	if cfg.Storage.DB.DSN == "" {
		errs = append(errs, ErrInvalidStorageConfigs)
	}

	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" || cfg.App.TokenDuration <= 0 {
		errs = append(errs, ErrInvalidAppConfigs)
	}

	if !cfg.RateLimit.Disabled {
		if cfg.RateLimit.RequestsPerMinute <= 0 || cfg.RateLimit.Burst < 0 ||
			cfg.RateLimit.BucketTTL <= 0 || cfg.RateLimit.SweepInterval <= 0 {
			errs = append(errs, ErrInvalidRateLimitConfigs)
		}
	}

	if cfg.Idempotency.ReplayWait <= 0 || cfg.Idempotency.PollInterval <= 0 ||
		cfg.Idempotency.Retention <= 0 || cfg.Idempotency.PurgeInterval <= 0 {
		errs = append(errs, ErrInvalidIdempotencyConfigs)
	}

	if cfg.Server.HTTPAddress == "" {
		errs = append(errs, ErrInvalidServerConfigs)
	}

	return errors.Join(errs...)
}
