package report

import "strings"

var numerals = []string{"一", "二", "三", "四", "五", "六", "七", "八", "九", "十"}

// Numeral returns the full-width section numeral for a 1-based index
func Numeral(n int) string {
	switch {
	case n >= 1 && n <= 10:
		return numerals[n-1]
	case n > 10 && n < 20:
		return "十" + numerals[n-11]
	default:
		return ""
	}
}

// Render composes the report text of kind for the given station and fields.
// Missing fields render as empty values. Unknown kinds yield "".
func Render(kind Kind, stationName string, fields FieldSet, dtf DateTimeFormatter) string {
	schema, ok := SchemaFor(kind)
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(stationName)
	b.WriteString(schema.Header)

	for i, sec := range schema.Sections {
		b.WriteString("\n")
		b.WriteString(Numeral(i + 1))
		b.WriteString("、")
		b.WriteString(sec.Label)
		b.WriteString("：")

		switch sec.Layout {
		case LayoutDateTime:
			b.WriteString(dtf.Format(fields.Get(sec.Key)))
		case LayoutMultiline:
			b.WriteString("\n")
			b.WriteString(fields.Get(sec.Key))
		case LayoutSignature:
			b.WriteString(sec.Role)
			b.WriteString("：")
			b.WriteString(fields.Get(sec.Key))
			b.WriteString("（")
			b.WriteString(fields.Get(sec.IDKey))
			b.WriteString("）")
		default:
			b.WriteString(fields.Get(sec.Key))
		}
	}

	return b.String()
}
