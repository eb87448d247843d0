package schedule

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"daily-medicine-reminder/internal/errs"
)

// Kind es el tipo de schedule de una medicina.
// @Enum preset, interval, custom
type Kind string

const (
	KindPreset   Kind = "preset"
	KindInterval Kind = "interval"
	KindCustom   Kind = "custom"
)

const (
	MinFrequency = 1
	MaxFrequency = 4
)

// Labels de los slots preset.
const (
	Morning = "Morning"
	Noon    = "Noon"
	Evening = "Evening"
	Night   = "Night"
)

// presets: selector => labels en orden del día.
var presets = map[string][]string{
	"morning":                    {Morning},
	"noon":                       {Noon},
	"evening":                    {Evening},
	"night":                      {Night},
	"morning-night":              {Morning, Night},
	"morning-noon":               {Morning, Noon},
	"noon-night":                 {Noon, Night},
	"morning-evening":            {Morning, Evening},
	"morning-noon-night":         {Morning, Noon, Night},
	"morning-noon-evening":       {Morning, Noon, Evening},
	"morning-noon-evening-night": {Morning, Noon, Evening, Night},
}

// defaultsByFrequency se usa cuando un preset no trae selector.
var defaultsByFrequency = map[int][]string{
	1: {Morning},
	2: {Morning, Night},
	3: {Morning, Noon, Night},
	4: {Morning, Noon, Evening, Night},
}

var clockTime = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Config es la variante etiquetada Preset(selector) | Interval | Custom(times).
// Se construye con Preset/Interval/Custom o con Decode en el borde de storage;
// el resto del código nunca inspecciona tipos dinámicos.
type Config struct {
	kind   Kind
	preset string
	times  []string
}

func Preset(selector string) Config {
	return Config{kind: KindPreset, preset: strings.TrimSpace(selector)}
}

func Interval() Config {
	return Config{kind: KindInterval}
}

func Custom(times []string) Config {
	out := make([]string, 0, len(times))
	for _, t := range times {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return Config{kind: KindCustom, times: out}
}

func (c Config) Kind() Kind { return c.kind }

// PresetSelector devuelve el selector ("" si no aplica).
func (c Config) PresetSelector() string { return c.preset }

// CustomTimes devuelve una copia de los horarios custom (nil si no aplica).
func (c Config) CustomTimes() []string {
	if c.kind != KindCustom {
		return nil
	}
	return append([]string(nil), c.times...)
}

// ParseKind valida el string de tipo recibido desde afuera.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindPreset, KindInterval, KindCustom:
		return k, nil
	default:
		return "", errs.Invalid("scheduleType", "must be preset, custom, or interval")
	}
}

// Build arma la Config a partir de los campos crudos del request.
// Sólo el campo que corresponde al tipo se toma en cuenta.
func Build(kind Kind, customTimes []string, presetSelector string) Config {
	switch kind {
	case KindCustom:
		return Custom(customTimes)
	case KindInterval:
		return Interval()
	default:
		return Preset(presetSelector)
	}
}

// Expand devuelve los labels de un día, en orden. Función pura.
func Expand(frequency int, cfg Config) []string {
	switch cfg.kind {
	case KindPreset:
		if cfg.preset != "" {
			return clone(presets[cfg.preset])
		}
		return clone(defaultsByFrequency[frequency])
	case KindCustom:
		return append([]string(nil), cfg.times...)
	case KindInterval:
		if frequency < MinFrequency || frequency > MaxFrequency {
			return []string{}
		}
		step := 24.0 / float64(frequency)
		out := make([]string, 0, frequency)
		for i := 0; i < frequency; i++ {
			hour := int(math.Round(float64(i) * step))
			out = append(out, fmt.Sprintf("%02d:00", hour))
		}
		return out
	default:
		return []string{}
	}
}

// Validate chequea frecuencia, formato de horarios custom y que la cantidad
// de labels expandidos coincida con la frecuencia.
func Validate(frequency int, cfg Config) error {
	if frequency < MinFrequency || frequency > MaxFrequency {
		return errs.Invalid("frequency", "must be between 1 and 4")
	}
	if cfg.kind == KindCustom {
		// Un label repetido colapsa en un único slot (medicine_id, date, time_label).
		seen := make(map[string]struct{}, len(cfg.times))
		for _, t := range cfg.times {
			if !ValidTime(t) {
				return errs.Invalid("customTimes", fmt.Sprintf("%q must be HH:MM (00:00-23:59)", t))
			}
			if _, dup := seen[t]; dup {
				return errs.Invalid("customTimes", fmt.Sprintf("%q is repeated", t))
			}
			seen[t] = struct{}{}
		}
	}
	if cfg.kind == KindPreset && cfg.preset != "" {
		if _, ok := presets[cfg.preset]; !ok {
			return errs.Invalid("presetTimes", fmt.Sprintf("unknown preset %q", cfg.preset))
		}
	}
	if n := len(Expand(frequency, cfg)); n != frequency {
		return errs.Invalid("schedule", fmt.Sprintf("time labels count (%d) does not match frequency (%d)", n, frequency))
	}
	return nil
}

// ValidTime reporta si s es HH:MM con hora 00-23 y minuto 00-59.
func ValidTime(s string) bool {
	return clockTime.MatchString(s)
}

// Encode serializa la Config a las columnas de storage
// (schedule_type, custom_times JSON, preset_times).
func Encode(cfg Config) (kind string, customTimes *string, presetTimes *string, err error) {
	switch cfg.kind {
	case KindCustom:
		b, err := json.Marshal(cfg.times)
		if err != nil {
			return "", nil, nil, fmt.Errorf("encode custom times: %w", err)
		}
		s := string(b)
		return string(KindCustom), &s, nil, nil
	case KindPreset:
		if cfg.preset == "" {
			return string(KindPreset), nil, nil, nil
		}
		p := cfg.preset
		return string(KindPreset), nil, &p, nil
	case KindInterval:
		return string(KindInterval), nil, nil, nil
	default:
		return "", nil, nil, fmt.Errorf("encode schedule: unknown kind %q", cfg.kind)
	}
}

// Decode es la inversa de Encode. custom_times se guarda siempre como
// arreglo JSON; un string no-JSON se interpreta como lista separada por comas
// para tolerar datos viejos.
func Decode(kind string, customTimes *string, presetTimes *string) (Config, error) {
	switch Kind(kind) {
	case KindCustom:
		var times []string
		if customTimes != nil && strings.TrimSpace(*customTimes) != "" {
			raw := strings.TrimSpace(*customTimes)
			if strings.HasPrefix(raw, "[") {
				if err := json.Unmarshal([]byte(raw), &times); err != nil {
					return Config{}, fmt.Errorf("decode custom times: %w", err)
				}
			} else {
				times = strings.Split(raw, ",")
			}
		}
		return Custom(times), nil
	case KindPreset:
		sel := ""
		if presetTimes != nil {
			sel = *presetTimes
		}
		return Preset(sel), nil
	case KindInterval:
		return Interval(), nil
	default:
		return Config{}, fmt.Errorf("decode schedule: unknown kind %q", kind)
	}
}

func clone(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append([]string(nil), in...)
}
