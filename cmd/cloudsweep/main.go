// CloudSweep - audit a cloud project, classify its resources, clean
// up what is provably safe to remove.
package main

import (
	"github.com/rs/zerolog"

	// Register the AWS provider.
	_ "github.com/cloudsweep/cloudsweep/providers/aws"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	Execute()
}
