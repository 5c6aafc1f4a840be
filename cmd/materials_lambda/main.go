//go:build lambda

package main

import (
	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	h, err := newHandler()
	if err != nil {
		panic(err)
	}
	lambda.Start(h.MaterialsFunction)
}
