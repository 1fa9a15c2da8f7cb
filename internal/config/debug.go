package config

import "os"

func IsDebug() bool {
	return os.Getenv("HARVEY_DEBUG") == "1"
}
