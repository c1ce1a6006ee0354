package request

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// BindGet decodes the query string parameters into dst, a pointer to a
// struct. Fields are matched by their `form` tag and values are
// converted from strings where needed:
//
//	type page struct {
//	    Page int    `form:"page"`
//	    Sort string `form:"sort"`
//	}
func (r *Request) BindGet(dst any) error {
	return bindVars(r.get.All(), dst)
}

// BindPost decodes the form parameters into dst. See BindGet.
func (r *Request) BindPost(dst any) error {
	return bindVars(r.post.All(), dst)
}

func bindVars(src map[string]string, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "form",
		WeaklyTypedInput: true,
		Result:           dst,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBindVars, err)
	}

	if err := dec.Decode(src); err != nil {
		return fmt.Errorf("%w: %w", ErrBindVars, err)
	}

	return nil
}
