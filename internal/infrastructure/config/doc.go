// Package config handles loading and validating hydrochat configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Loading a local .env file
//   - Overriding with environment variables
//   - Validation of required fields
//
// The shared admin key should be supplied through the environment
// (ADMIN_KEY or HYDROCHAT_AUTH_ADMIN_KEY) rather than the config file.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Address())
package config
