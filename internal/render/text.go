package render

import (
	"fmt"
	"strings"
)

// Text renders v for a terminal. BlockNone renders as the empty string.
func Text(v View) string {
	switch v.Block {
	case BlockLoading:
		return "Loading...\n"
	case BlockError:
		return "Error: " + v.Message + "\n"
	case BlockWeather:
		var b strings.Builder
		fmt.Fprintf(&b, "[%s] %s\n", v.Icon, v.Heading)
		fmt.Fprintf(&b, "  %s  %s\n", v.Temp, v.Conditions)
		fmt.Fprintf(&b, "  Humidity: %s  Wind: %s\n", v.Humidity, v.WindSpeed)
		return b.String()
	default:
		return ""
	}
}
