package format

const (
	// integer part, fraction part, percent sign.
	numberPatternRegexp = `^([#0,]*0|#)(?:\.([0#]+))?(%)?$`
)

// date layouts accepted when a text cell is formatted as date.
var textDateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"02/01/2006 15:04",
}
