package compiler_test

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gdavidbutler/decisionTableCompiler/compiler"
	"github.com/gdavidbutler/decisionTableCompiler/dagbuild"
	"github.com/gdavidbutler/decisionTableCompiler/fact"
)

// singleFileOpener returns a func usable as Compile's open argument, serving text
// for exactly the one file name it was built for, mirroring how cmd/dtc
// would open real paths but without touching a filesystem.
func singleFileOpener(t *testing.T, name, text string) func(string) (io.Reader, error) {
	t.Helper()
	return func(got string) (io.Reader, error) {
		require.Equal(t, name, got)
		return strings.NewReader(text), nil
	}
}

func multiFileOpener(files map[string]string) func(string) (io.Reader, error) {
	return func(name string) (io.Reader, error) {
		text, ok := files[name]
		if !ok {
			return nil, fmt.Errorf("no such file: %s", name)
		}
		return strings.NewReader(text), nil
	}
}

// TestCompileS1TrafficLightTwoTables runs spec S1: two tables both
// resolving `proceed`, the second table's rows both premised on
// signal=yellow plus canStop. Every row's resolution must be present and
// the program must terminate; the exact minimum depth is not asserted
// here (that is dagbuild's own unit-tested property, not compiler's).
func TestCompileS1TrafficLightTwoTables(t *testing.T) {
	text := "@proceed,signal\nyes,green\nno,red\n@proceed,signal,canStop\nyes,yellow,no\nno,yellow,yes\n"
	var buf bytes.Buffer
	err := compiler.Compile([]string{"s1.csv"}, singleFileOpener(t, "s1.csv", text), &buf, compiler.Options{})
	require.NoError(t, err)

	cr := csv.NewReader(strings.NewReader(buf.String()))
	cr.FieldsPerRecord = -1 // opcode records differ in width
	rows, err := cr.ReadAll()
	require.NoError(t, err)

	var d int
	var sawSignalTest, sawCanStopTest, sawFinalExit bool
	var proceedYes, proceedNo int
	for _, r := range rows {
		switch r[0] {
		case "D":
			d, _ = strconv.Atoi(r[1])
		case "T":
			if r[1] == "signal" {
				sawSignalTest = true
			}
			if r[1] == "canStop" {
				sawCanStopTest = true
			}
		case "R":
			if r[1] == "proceed" && r[2] == "yes" {
				proceedYes++
			}
			if r[1] == "proceed" && r[2] == "no" {
				proceedNo++
			}
		}
	}
	sawFinalExit = len(rows) > 0 && rows[len(rows)-1][0] == "L" && rows[len(rows)-1][1] == "0"

	require.Greater(t, d, 0)
	require.True(t, sawSignalTest, "signal must be tested: it disambiguates green/red/yellow")
	require.True(t, sawCanStopTest, "canStop must be tested: it disambiguates the two yellow rows")
	require.Equal(t, 2, proceedYes, "proceed=yes from the green row and the yellow+canStop=no row")
	require.Equal(t, 2, proceedNo, "proceed=no from the red row and the yellow+canStop=yes row")
	require.True(t, sawFinalExit, "program must end with L,0")
}

// TestCompileS2FourTableSharedBrake runs a condensed version of spec S2: a
// downstream Name (brake) fed by two independent upstream chains that both
// bottom out at the same resolved value, so the emitter must reuse one
// label instead of duplicating brake's resolution.
func TestCompileS2FourTableSharedBrake(t *testing.T) {
	text := "" +
		"@proceed,signal\nyes,green\nno,red\n" +
		"@brake,proceed\nno,yes\nyes,no\n"
	var buf bytes.Buffer
	err := compiler.Compile([]string{"s2.csv"}, singleFileOpener(t, "s2.csv", text), &buf, compiler.Options{})
	require.NoError(t, err)

	cr := csv.NewReader(strings.NewReader(buf.String()))
	cr.FieldsPerRecord = -1 // opcode records differ in width
	rows, err := cr.ReadAll()
	require.NoError(t, err)

	seen := make(map[[2]string]int)
	for _, r := range rows {
		if r[0] == "R" && r[1] == "brake" {
			seen[[2]string{r[1], r[2]}]++
		}
	}
	require.Equal(t, 1, seen[[2]string{"brake", "yes"}])
	require.Equal(t, 1, seen[[2]string{"brake", "no"}])
}

// TestCompileS3Contradiction runs spec S3: two rows sharing a premise but
// disagreeing on the result, which must surface as a Contradiction naming
// both source rows. A third row (signal=red) keeps signal at the required
// two distinct values, so Validate's UnderSpecifiedName check does not
// mask the contradiction before the post-build check ever runs.
func TestCompileS3Contradiction(t *testing.T) {
	text := "@proceed,signal\nyes,green\nno,green\nno,red\n"
	var buf bytes.Buffer
	err := compiler.Compile([]string{"s3.csv"}, singleFileOpener(t, "s3.csv", text), &buf, compiler.Options{})
	require.Error(t, err)
	require.ErrorIs(t, err, dagbuild.ErrContradiction)
	require.Contains(t, err.Error(), "s3.csv:2")
	require.Contains(t, err.Error(), "s3.csv:3")
}

// TestCompileS4UnderSpecifiedName runs spec S4: a header with only one
// distinct value must be rejected before any search even starts.
func TestCompileS4UnderSpecifiedName(t *testing.T) {
	text := "@x,y\na,m\n"
	var buf bytes.Buffer
	err := compiler.Compile([]string{"s4.csv"}, singleFileOpener(t, "s4.csv", text), &buf, compiler.Options{})
	require.Error(t, err)
	require.ErrorIs(t, err, fact.ErrUnderSpecifiedName)
}

// TestCompileS5QuickNeverExceedsNameCount runs a condensed version of spec
// S5: quick mode must still produce a valid (checked) program whose depth
// never exceeds the Name count, and full mode's depth must be <= quick's.
func TestCompileS5QuickNeverExceedsNameCount(t *testing.T) {
	var b strings.Builder
	b.WriteString("@result")
	const nameCount = 6
	for i := 0; i < nameCount; i++ {
		fmt.Fprintf(&b, ",n%d", i)
	}
	b.WriteByte('\n')
	for i := 0; i < nameCount; i++ {
		row := make([]string, nameCount+1)
		row[0] = "hit"
		for j := range row[1:] {
			row[j+1] = ""
		}
		row[i+1] = "a"
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	row := make([]string, nameCount+1)
	row[0] = "miss"
	for j := range row[1:] {
		row[j+1] = "b"
	}
	b.WriteString(strings.Join(row, ","))
	b.WriteByte('\n')
	text := b.String()

	var full, quick bytes.Buffer
	errFull := compiler.Compile([]string{"s5.csv"}, singleFileOpener(t, "s5.csv", text), &full, compiler.Options{Quick: false})
	errQuick := compiler.Compile([]string{"s5.csv"}, singleFileOpener(t, "s5.csv", text), &quick, compiler.Options{Quick: true})
	require.NoError(t, errFull)
	require.NoError(t, errQuick)

	dOf := func(buf *bytes.Buffer) int {
		cr := csv.NewReader(strings.NewReader(buf.String()))
		cr.FieldsPerRecord = -1 // opcode records differ in width
		rows, err := cr.ReadAll()
		require.NoError(t, err)
		for _, r := range rows {
			if r[0] == "D" {
				n, _ := strconv.Atoi(r[1])
				return n
			}
		}
		t.Fatal("no D line emitted")
		return 0
	}
	dFull, dQuick := dOf(&full), dOf(&quick)
	require.LessOrEqual(t, dFull-1, nameCount)
	require.LessOrEqual(t, dQuick-1, nameCount)
	require.LessOrEqual(t, dFull, dQuick)
}

// TestCompileS6CSVQuotingRoundTrip runs spec S6: a Name and Value
// containing a comma and an embedded quote must survive intern -> emit
// with RFC-4180 quoting intact, recoverable by the standard csv reader.
func TestCompileS6CSVQuotingRoundTrip(t *testing.T) {
	text := "@proceed,\"si,gnal\"\nyes,\"gr\"\"een\"\nno,red\n"
	var buf bytes.Buffer
	err := compiler.Compile([]string{"s6.csv"}, singleFileOpener(t, "s6.csv", text), &buf, compiler.Options{})
	require.NoError(t, err)

	cr := csv.NewReader(strings.NewReader(buf.String()))
	cr.FieldsPerRecord = -1 // opcode records differ in width
	rows, err := cr.ReadAll()
	require.NoError(t, err)

	var sawComma, sawQuote bool
	for _, r := range rows {
		for _, cell := range r {
			if strings.Contains(cell, "si,gnal") {
				sawComma = true
			}
			if strings.Contains(cell, `gr"een`) {
				sawQuote = true
			}
		}
	}
	require.True(t, sawComma, "comma-bearing name must round-trip through csv quoting")
	require.True(t, sawQuote, "embedded-quote value must round-trip through csv quoting")
}

// TestCompileMultiFileSharedGraph confirms files are folded into one
// shared fact.Graph (spec §6: "multi-file compilation into one Fact
// Graph"): a Name declared in one file is usable as a premise in another.
func TestCompileMultiFileSharedGraph(t *testing.T) {
	files := map[string]string{
		"a.csv": "@proceed,signal\nyes,green\nno,red\n",
		"b.csv": "@go,proceed\nnow,yes\nnever,no\n",
	}
	var buf bytes.Buffer
	err := compiler.Compile([]string{"a.csv", "b.csv"}, multiFileOpener(files), &buf, compiler.Options{})
	require.NoError(t, err)

	cr := csv.NewReader(strings.NewReader(buf.String()))
	cr.FieldsPerRecord = -1 // opcode records differ in width
	rows, err := cr.ReadAll()
	require.NoError(t, err)
	var sawGo bool
	for _, r := range rows {
		if r[0] == "R" && r[1] == "go" {
			sawGo = true
		}
	}
	require.True(t, sawGo, "go must be resolved from a test driven entirely by signal, declared in a.csv")
}

// TestCompileOpenError confirms a file-open failure is reported with the
// offending file name and never reaches ingest.
func TestCompileOpenError(t *testing.T) {
	var buf bytes.Buffer
	err := compiler.Compile([]string{"missing.csv"}, multiFileOpener(nil), &buf, compiler.Options{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing.csv")
}
