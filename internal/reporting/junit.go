package reporting

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/coft-dev/coft/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one harness run.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
	SystemOut  string          `xml:"system-out,omitempty"`
	SystemErr  string          `xml:"system-err,omitempty"`
}

// JUnitTestCase maps to one testcase of the problem.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a wrong answer.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitError represents a build or runtime failure.
type JUnitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitSkipped marks a test as skipped.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts a run outcome to JUnit XML. Build and runtime
// failures become a single errored testcase.
func ConvertToJUnit(problemID, language string, outcome models.Outcome, ts time.Time) *JUnitTestSuites {
	suite := JUnitTestSuite{
		Name:      problemID,
		Timestamp: ts.UTC().Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "language", Value: language},
			{Name: "verdict", Value: string(models.VerdictOf(outcome))},
		},
	}

	switch v := outcome.(type) {
	case models.StructuredResult:
		fillFromDocument(&suite, problemID, v.Document)
	case models.BuildFailure:
		suite.Tests, suite.Errors = 1, 1
		suite.TestCases = []JUnitTestCase{{
			Name:      "build",
			Classname: problemID,
			Error:     &JUnitError{Message: "build failed", Type: "BuildFailure", Body: v.Excerpt},
		}}
	case models.RuntimeFailure:
		suite.Tests, suite.Errors = 1, 1
		suite.TestCases = []JUnitTestCase{{
			Name:      "run",
			Classname: problemID,
			Error:     &JUnitError{Message: fmt.Sprintf("exit code %d", v.ExitCode), Type: "RuntimeFailure", Body: v.Stderr},
		}}
		suite.SystemOut = v.Stdout
		suite.SystemErr = v.Stderr
	}

	return &JUnitTestSuites{
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		Errors:     suite.Errors,
		Time:       suite.Time,
		TestSuites: []JUnitTestSuite{suite},
	}
}

func fillFromDocument(suite *JUnitTestSuite, problemID string, doc *models.ResultDocument) {
	if doc == nil {
		return
	}
	passed, failed, skipped := doc.Counts()
	suite.Tests = passed + failed + skipped
	suite.Failures = failed
	suite.Skipped = skipped
	suite.Time = doc.DurationMs / 1000.0
	suite.SystemOut = doc.Stdout
	suite.SystemErr = doc.Stderr

	for _, t := range doc.Tests {
		tc := JUnitTestCase{Name: t.TestcaseName, Classname: problemID}
		switch {
		case models.IsPassing(t.Status):
		case models.IsSkipped(t.Status):
			tc.Skipped = &JUnitSkipped{Message: "no expected answer"}
		default:
			tc.Failure = buildFailure(t)
		}
		suite.TestCases = append(suite.TestCases, tc)
	}
}

func buildFailure(t models.TestEntry) *JUnitFailure {
	msg := t.Reason
	if msg == "" {
		msg = t.Status
	}
	body := ""
	if t.Expected != nil || t.Actual != nil {
		exp, _ := json.Marshal(t.Expected)
		act, _ := json.Marshal(t.Actual)
		body = fmt.Sprintf("expected: %s\nactual:   %s\n", exp, act)
	}
	return &JUnitFailure{Message: msg, Type: t.Status, Body: body}
}

// WriteJUnitXML writes JUnit XML to the specified file path.
func WriteJUnitXML(problemID, language string, outcome models.Outcome, ts time.Time, path string) error {
	suites := ConvertToJUnit(problemID, language, outcome, ts)

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	output := append([]byte(xml.Header), data...)
	return os.WriteFile(path, output, 0644)
}
