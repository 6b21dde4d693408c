// ABOUTME: Vendor annex parsing and encoding
// ABOUTME: Decodes the NUL-separated metadata block appended after the data chunk
package wav

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// annexPrefixSize bytes precede the first NUL-separated field.
	annexPrefixSize = 8

	// utcSuffix is appended to the label field by the device firmware.
	utcSuffix = ". Recording date/time is in UTC."

	// reserved field counts between the values we understand.
	reservedAfterSensitivity = 5
	reservedAfterScale       = 3
)

// parseAnnex decodes the vendor annex into a Metadata record.
//
// Layout: an 8-byte prefix, then NUL-separated fields in fixed order —
// a format version, the recording date, per channel a transducer
// description, the sensitivity, five reserved fields, the scale factor and
// three reserved fields, then the unit name, a "Label: ..." field, one
// reserved field and finally a setup text with one [Channel i] section per
// channel carrying Name= and Unit= lines.
func parseAnnex(annex []byte, channels int) (*Metadata, error) {
	fields := splitFields(annex[annexPrefixSize:])

	// Fields consumed per channel plus the fixed head and tail.
	perChannel := 2 + reservedAfterSensitivity + 1 + reservedAfterScale
	need := 2 + channels*perChannel + 4
	if len(fields) < need {
		return nil, malformed("annex has %d fields, need %d for %d channels",
			len(fields), need, channels)
	}

	m := &Metadata{
		Version: fields[0],
		Date:    fields[1],
	}

	i := 2
	for ch := 0; ch < channels; ch++ {
		m.Transducers = append(m.Transducers, fields[i])
		i++
		sens, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, malformed("channel %d sensitivity %q: %v", ch+1, fields[i], err)
		}
		m.Sensitivities = append(m.Sensitivities, sens)
		i += 1 + reservedAfterSensitivity
		scale, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, malformed("channel %d scale %q: %v", ch+1, fields[i], err)
		}
		m.Scales = append(m.Scales, scale)
		i += 1 + reservedAfterScale
	}

	m.UnitName = fields[i]
	i++
	m.Label = parseLabel(fields[i])
	i += 2 // label, one reserved field

	names, units, err := parseSetupText(fields[i], channels)
	if err != nil {
		return nil, err
	}
	m.ChannelNames = names
	m.ChannelUnits = units

	return m, nil
}

// splitFields splits on NUL and drops empty runs, matching how the device
// pads the annex.
func splitFields(b []byte) []string {
	var fields []string
	for _, f := range strings.Split(string(b), "\x00") {
		if f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// parseLabel extracts the recording name from a "Label: <name><utcSuffix>"
// field.
func parseLabel(field string) string {
	_, rest, found := strings.Cut(field, ":")
	if !found {
		return field
	}
	rest = strings.TrimPrefix(rest, " ")
	return strings.TrimSuffix(rest, utcSuffix)
}

// parseSetupText pulls Name= and Unit= out of each [Channel i] section.
func parseSetupText(setup string, channels int) (names, units []string, err error) {
	for ch := 1; ch <= channels; ch++ {
		marker := fmt.Sprintf("[Channel %d]", ch)
		idx := strings.Index(setup, marker)
		if idx < 0 {
			return nil, nil, malformed("annex setup text missing %q section", marker)
		}
		setup = setup[idx+len(marker):]

		section := setup
		if stop := strings.Index(section, "["); stop >= 0 {
			section = section[:stop]
		}

		name, ok := sectionValue(section, "Name=")
		if !ok {
			return nil, nil, malformed("channel %d section has no Name", ch)
		}
		unit, ok := sectionValue(section, "Unit=")
		if !ok {
			return nil, nil, malformed("channel %d section has no Unit", ch)
		}
		names = append(names, name)
		units = append(units, unit)
	}
	return names, units, nil
}

// sectionValue returns the first "<key><value>\n" value in a setup section.
func sectionValue(section, key string) (string, bool) {
	_, rest, found := strings.Cut(section, key)
	if !found {
		return "", false
	}
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.TrimRight(rest, "\r"), true
}

// encodeAnnex is the inverse of parseAnnex, used by the encoder.
func encodeAnnex(m *Metadata) []byte {
	var fields []string

	version := m.Version
	if version == "" {
		version = "2.10"
	}
	fields = append(fields, version, m.Date)

	for ch := range m.Transducers {
		fields = append(fields, m.Transducers[ch])
		fields = append(fields, formatFloat(m.Sensitivities[ch]))
		for r := 0; r < reservedAfterSensitivity; r++ {
			fields = append(fields, "0")
		}
		fields = append(fields, formatFloat(m.Scales[ch]))
		for r := 0; r < reservedAfterScale; r++ {
			fields = append(fields, "0")
		}
	}

	fields = append(fields, m.UnitName)
	fields = append(fields, "Label: "+m.Label+utcSuffix)
	fields = append(fields, "0")

	var setup strings.Builder
	for ch := range m.ChannelNames {
		fmt.Fprintf(&setup, "[Channel %d]\nName=%s\nUnit=%s\n",
			ch+1, m.ChannelNames[ch], m.ChannelUnits[ch])
	}
	fields = append(fields, setup.String())

	out := make([]byte, annexPrefixSize)
	for _, f := range fields {
		out = append(out, []byte(f)...)
		out = append(out, 0)
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
