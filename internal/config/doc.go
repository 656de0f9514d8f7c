// Package config turns flags, the config file, the environment and an
// optional .env file into a validated Config. Every required value that is
// missing for the selected translation provider or store backend is reported
// as a MissingError naming the environment variable to set.
package config
