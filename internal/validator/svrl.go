package validator

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// SVRL flags. Fatal and error make a document invalid.
const (
	FlagFatal       = "fatal"
	FlagError       = "error"
	FlagWarning     = "warning"
	FlagInformation = "information"
)

// ParseSVRL converts a Schematron Validation Report into a Result.
// Messages keep document order.
func ParseSVRL(data []byte) (*Result, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse SVRL: %w", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "schematron-output" {
		return nil, fmt.Errorf("not an SVRL report")
	}

	result := NewResult()
	collectFindings(root, result)
	return result, nil
}

func collectFindings(el *etree.Element, result *Result) {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "failed-assert":
			addFinding(child, FlagError, result)
		case "successful-report":
			addFinding(child, FlagWarning, result)
		default:
			collectFindings(child, result)
		}
	}
}

func addFinding(el *etree.Element, defaultFlag string, result *Result) {
	flag := strings.ToLower(el.SelectAttrValue("flag", defaultFlag))

	var text string
	if t := el.SelectElement("text"); t != nil {
		text = strings.Join(strings.Fields(t.Text()), " ")
	}

	msg := fmt.Sprintf("[%s]", flag)
	if id := el.SelectAttrValue("id", ""); id != "" {
		msg += " " + id
	}
	if loc := el.SelectAttrValue("location", ""); loc != "" {
		msg += " at " + loc
	}
	msg += ": " + text

	switch flag {
	case FlagWarning, FlagInformation:
		result.AddMessage(msg)
	default:
		result.AddError(msg)
	}
}
