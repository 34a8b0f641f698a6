package css

type propertyDefault struct {
	initial   string
	inherited bool
}

// propertyDefaults lists the properties every computed style carries.
// Properties outside this table appear only when a rule sets them.
var propertyDefaults = map[string]propertyDefault{
	"display":    {initial: "inline"},
	"position":   {initial: "static"},
	"visibility": {initial: "visible", inherited: true},
	"opacity":    {initial: "1"},
	"z-index":    {initial: "auto"},

	"width":  {initial: "auto"},
	"height": {initial: "auto"},
	"top":    {initial: "auto"},
	"right":  {initial: "auto"},
	"bottom": {initial: "auto"},
	"left":   {initial: "auto"},

	"margin-top":     {initial: "0px"},
	"margin-right":   {initial: "0px"},
	"margin-bottom":  {initial: "0px"},
	"margin-left":    {initial: "0px"},
	"padding-top":    {initial: "0px"},
	"padding-right":  {initial: "0px"},
	"padding-bottom": {initial: "0px"},
	"padding-left":   {initial: "0px"},

	"color":       {initial: "black", inherited: true},
	"font-family": {initial: "serif", inherited: true},
	"font-size":   {initial: "16px", inherited: true},
	"font-style":  {initial: "normal", inherited: true},
	"font-weight": {initial: "normal", inherited: true},
	"line-height": {initial: "normal", inherited: true},
	"text-align":  {initial: "start", inherited: true},
	"white-space": {initial: "normal", inherited: true},
	"cursor":      {initial: "auto", inherited: true},
}
