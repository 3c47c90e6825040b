package translator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
)

// InvokeAPI is the part of the Lambda client used to call translator functions.
type InvokeAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaRequest is the payload sent to a self-hosted translator function.
type LambdaRequest struct {
	Q        string `json:"q"`
	LangPair string `json:"langpair"`
}

// Lambda translates by invoking a translator function that speaks the
// same request and response shape as the public service.
type Lambda struct {
	client       InvokeAPI
	functionName string
}

// NewLambda creates a Lambda-backed translator.
func NewLambda(client InvokeAPI, functionName string) *Lambda {
	return &Lambda{
		client:       client,
		functionName: functionName,
	}
}

// Translate invokes the translator function synchronously.
func (l *Lambda) Translate(ctx context.Context, text, sourceCode, targetCode string) (string, error) {
	payload, err := json.Marshal(LambdaRequest{
		Q:        text,
		LangPair: LangPair(sourceCode, targetCode),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	result, err := l.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(l.functionName),
		Payload:      payload,
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke %s: %w", l.functionName, err)
	}

	// Check for Lambda errors
	if result.FunctionError != nil {
		return "", fmt.Errorf("lambda error: %s: %s", aws.ToString(result.FunctionError), result.Payload)
	}

	var r Response
	if err := json.Unmarshal(result.Payload, &r); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return r.text()
}
