// Command afcoco converts annotations between Annofab and COCO Instances.
package main

import (
	"github.com/custodia-labs/afcoco/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
