package validation

import (
	"encoding/base64"
	"strconv"

	validation "github.com/jellydator/validation"
)

// Base64Key validates standard base64 that decodes to exactly size bytes.
func Base64Key(size int) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, ok := value.(string)
		if !ok {
			return validation.NewError("validation_base64_type", "must be a string")
		}
		if s == "" {
			return nil
		}

		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return validation.NewError("validation_base64", "must be valid base64-encoded data")
		}
		if len(decoded) != size {
			return validation.NewError(
				"validation_base64_key_size",
				"must decode to exactly "+strconv.Itoa(size)+" bytes",
			)
		}
		return nil
	})
}
