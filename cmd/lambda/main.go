// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Command lambda serves evaldb queries as an AWS Lambda function.
package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/pterm/pterm"

	"evaldb/cli/internal/lambdaproxy"
	"evaldb/cli/internal/logging"
)

func main() {
	h, err := lambdaproxy.FromEnv()
	if err != nil {
		pterm.Fatal.Println(logging.PresentError("lambda", err))
	}
	lambda.Start(h.Handle)
}
