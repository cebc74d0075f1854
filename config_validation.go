package fscc

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateConfig validates port configuration parameters
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return describeFieldError(verrs[0])
		}
		return err
	}

	if err := validateDevicePath(cfg.Path); err != nil {
		return err
	}

	if cfg.Log.File != "" && strings.Contains(cfg.Log.File, "..") {
		return fmt.Errorf("log file %q contains path traversal", cfg.Log.File)
	}

	if cfg.Async != nil {
		if err := ValidateAsyncConfig(cfg.Async); err != nil {
			return errors.Annotate(err, "async")
		}
	}
	return nil
}

// describeFieldError turns a validator failure into a readable sentence.
func describeFieldError(fe validator.FieldError) error {
	switch fe.StructNamespace() {
	case "Config.Path":
		return fmt.Errorf("%w: %w: device path cannot be empty", ErrNotFound, ErrInvalidPath)
	case "Config.Access":
		return fmt.Errorf("%w: %v", ErrInvalidAccessMode, fe.Value())
	case "Config.MaxFrameSize":
		return fmt.Errorf("max frame size must be 1-%d, got: %v", AbsoluteMaxFrameSize, fe.Value())
	case "Config.Log.Level":
		return fmt.Errorf("invalid log level %q, must be one of: %s", fe.Value(), fe.Param())
	case "Config.Log.MaxSizeMB":
		return fmt.Errorf("log max size cannot be negative: %v", fe.Value())
	case "Config.Log.MaxBackups":
		return fmt.Errorf("log max backups cannot be negative: %v", fe.Value())
	}
	return fmt.Errorf("invalid %s: failed %q", fe.Field(), fe.Tag())
}

var validBaudRates = []BaudRate{
	Baud1200, Baud2400, Baud4800, Baud9600, Baud19200, Baud38400,
	Baud57600, Baud115200, Baud230400, Baud460800, Baud921600,
}

// ValidateAsyncConfig validates asynchronous tty configuration parameters
func ValidateAsyncConfig(cfg *AsyncConfig) error {
	if cfg.PortName == "" {
		return fmt.Errorf("port name cannot be empty")
	}
	if strings.Contains(cfg.PortName, "..") {
		return fmt.Errorf("invalid port name: contains path traversal")
	}

	if !isValidBaudRate(BaudRate(cfg.BaudRate)) {
		return fmt.Errorf("invalid baud rate %d, must be one of: %v", cfg.BaudRate, validBaudRates)
	}

	if cfg.DataBits < DataBits5.Int() || cfg.DataBits > DataBits8.Int() {
		return fmt.Errorf("data bits must be 5-8, got: %d", cfg.DataBits)
	}

	switch cfg.Parity {
	case ParityNone, ParityOdd, ParityEven, ParityMark, ParitySpace:
	default:
		return fmt.Errorf("invalid parity value: %d", cfg.Parity)
	}

	switch cfg.StopBits {
	case StopBits1, StopBits1Half, StopBits2:
	default:
		return fmt.Errorf("invalid stop bits value: %d", cfg.StopBits)
	}

	if cfg.ReadTimeout < 0 {
		return fmt.Errorf("read timeout cannot be negative: %v", cfg.ReadTimeout)
	}
	return nil
}

func isValidBaudRate(rate BaudRate) bool {
	for _, v := range validBaudRates {
		if rate == v {
			return true
		}
	}
	return false
}
