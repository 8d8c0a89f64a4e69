package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pelletier/go-toml/v2"

	"github.com/tisannai/mucgly/internal/hook"
)

// templateFile is the shape of an optional mucgly.toml: the process-wide
// default HookConfig template named in spec section 3 ("Ownership"), seeded
// for the very first input source and any source pushed while the input
// stack is empty.
type templateFile struct {
	HookBeg string `toml:"hookbeg"`
	HookEnd string `toml:"hookend"`
	HookEsc string `toml:"hookesc"`
	Eater   string `toml:"eater"`
}

// loadTemplate builds the default hook.Config for this run: f.configPath's
// mucgly.toml (if given), then any of --hookbeg/--hookend/--hookesc/--eater
// overriding individual fields on top of it. Every invalid field found is
// aggregated into one multierror instead of stopping at the first.
func loadTemplate(f *flags) (*hook.Config, error) {
	tf := templateFile{}
	if f.configPath != "" {
		data, err := os.ReadFile(f.configPath)
		if err != nil {
			return nil, fmt.Errorf("mucgly: read config %q: %w", f.configPath, err)
		}
		if err := toml.Unmarshal(data, &tf); err != nil {
			return nil, fmt.Errorf("mucgly: parse config %q: %w", f.configPath, err)
		}
	}

	if f.hookbeg != "" {
		tf.HookBeg = f.hookbeg
	}
	if f.hookend != "" {
		tf.HookEnd = f.hookend
	}
	if f.hookesc != "" {
		tf.HookEsc = f.hookesc
	}
	if f.eater != "" {
		tf.Eater = f.eater
	}

	cfg := hook.Default()
	var errs *multierror.Error

	if tf.HookBeg != "" {
		if err := cfg.SetHook(hook.KindBeg, []byte(tf.HookBeg)); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("hookbeg: %w", err))
		}
	}
	if tf.HookEnd != "" {
		if err := cfg.SetHook(hook.KindEnd, []byte(tf.HookEnd)); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("hookend: %w", err))
		}
	}
	if tf.HookEsc != "" {
		if err := cfg.SetHook(hook.KindEsc, []byte(tf.HookEsc)); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("hookesc: %w", err))
		}
	}
	if tf.Eater != "" {
		cfg.SetEater([]byte(tf.Eater))
	}

	if errs.ErrorOrNil() != nil {
		return nil, fmt.Errorf("mucgly: invalid default template: %w", errs)
	}
	return cfg, nil
}
