package command

import (
	"context"
	"fmt"

	"github.com/logue/drop-compress-image/internal/logging"
)

// Command names exposed to the UI.
const (
	EchoMessageName   = "echo_message"
	GetAppVersionName = "get_app_version"
	ProcessDataName   = "process_data"
)

// EchoMessage returns message prefixed with "Echo: ".
func EchoMessage(sink logging.Sink, message string) (string, error) {
	sink.Log(logging.Info, "Received message: "+message)
	result := "Echo: " + message
	sink.Log(logging.Info, "Message echoed successfully")
	return result, nil
}

// GetAppVersion returns the build version.
func GetAppVersion(version string) (string, error) {
	return version, nil
}

// ProcessData summarises data and, when present, the rendered options.
func ProcessData(sink logging.Sink, data string, options Options) (string, error) {
	sink.Log(logging.Info, "Processing data...")

	var result string
	if options.Present() {
		result = fmt.Sprintf("Processed '%s' with options: %s", data, options)
	} else {
		result = fmt.Sprintf("Processed '%s' with default options", data)
	}

	sink.Log(logging.Info, "Processing complete")
	return result, nil
}

type echoArgs struct {
	Message *string `json:"message"`
}

func (a *echoArgs) validate() error {
	if a.Message == nil {
		return missingField("message")
	}
	return nil
}

type processArgs struct {
	Data    *string `json:"data"`
	Options Options `json:"options"`
}

func (a *processArgs) validate() error {
	if a.Data == nil {
		return missingField("data")
	}
	return nil
}

// Entries is the complete command table for a build with the given version.
func Entries(version string) []Entry {
	return []Entry{
		{
			Name: EchoMessageName,
			Handler: Typed(func(_ context.Context, sink logging.Sink, a echoArgs) (string, error) {
				return EchoMessage(sink, *a.Message)
			}),
		},
		{
			Name: GetAppVersionName,
			Handler: Typed(func(context.Context, logging.Sink, struct{}) (string, error) {
				return GetAppVersion(version)
			}),
		},
		{
			Name: ProcessDataName,
			Handler: Typed(func(_ context.Context, sink logging.Sink, a processArgs) (string, error) {
				return ProcessData(sink, *a.Data, a.Options)
			}),
		},
	}
}

// New builds the application registry with the default middleware.
func New(version string) (*Registry, error) {
	return NewRegistry(Entries(version), WithMiddleware(Defaults()...))
}
