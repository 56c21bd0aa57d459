/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestBasicUsage(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "data.csv", "g,x,s\n2,6,c\n1,2,a\n1,4,b\n")
	out := filepath.Join(dir, "out.csv")

	testCases := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "sort",
			args:     []string{"sort", data, "--by", "x(D)"},
			expected: "g,x,s(A1)\n2,6,c\n1,4,b\n1,2,a\n",
		},
		{
			name:     "aggregate",
			args:     []string{"aggregate", data, "--break", "g", "--var", "S 'sum of x' = SUM(x)", "--var", "N=N"},
			expected: "g,S,N\n1,6,2\n2,6,1\n",
		},
		{
			name:     "aggregate adding variables",
			args:     []string{"aggregate", data, "-b", "g", "-a", "M=MAX(x)", "--add-variables"},
			expected: "g,x,s(A1),M\n2,6,c,6\n1,2,a,4\n1,4,b,4\n",
		},
		{
			name:     "rank",
			args:     []string{"rank", data, "--var", "x", "--func", "RANK", "--func", "N"},
			expected: "g,x,s(A1),Rx,Nx\n2,6,c,3,3\n1,2,a,1,3\n1,4,b,2,3\n",
		},
		{
			name:     "rank by groups",
			args:     []string{"rank", data, "--var", "x(D)", "--by", "g"},
			expected: "g,x,s(A1),Rx\n2,6,c,1\n1,2,a,2\n1,4,b,1\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require := require.New(t)
			args := append([]string{"pspp-pipe"}, tc.args...)
			args = append(args, "--out", out)
			require.NoError(execRootCmd(args, "1.0.0"))
			require.Equal(tc.expected, readFile(t, out))
		})
	}
}

func TestMatch(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	left := writeFile(t, dir, "left.csv", "id,a\n3,30\n1,10\n")
	right := writeFile(t, dir, "right.csv", "id,b\n1,100\n2,200\n")
	lookup := writeFile(t, dir, "lookup.csv", "id,c\n1,7\n3,9\n")
	out := filepath.Join(dir, "out.csv")

	err := execRootCmd([]string{"pspp-pipe", "match", left, right, "--table", lookup,
		"--by", "id", "--sort", "--in", "inl,inr", "--out", out}, "1.0.0")
	require.NoError(err)
	require.Equal("id,a,b,c,inl,inr\n1,10,100,7,1,1\n2,,200,,0,1\n3,30,,9,1,0\n", readFile(t, out))

	t.Run("should fail on unsorted input", func(t *testing.T) {
		err := execRootCmd([]string{"pspp-pipe", "match", left, right, "--by", "id", "--out", out}, "1.0.0")
		require.Error(err)
	})
}

func TestStatistics(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "data.csv", "x,y\n1,2\n2,4\n3,5\n4,4\n5,5\n")
	out := filepath.Join(dir, "out.txt")

	t.Run("should print correlations", func(t *testing.T) {
		require := require.New(t)
		require.NoError(execRootCmd([]string{"pspp-pipe", "correlations", data, "--vars", "x,y", "--out", out}, "1.0.0"))
		lines := strings.Split(strings.TrimSpace(readFile(t, out)), "\n")
		require.Len(lines, 5)
		require.Contains(lines[0], "Pearson")
		require.Equal([]string{"x", "x", "1", ".", "5", "2.5", "10"}, strings.Fields(lines[1]))
		require.Equal("x", strings.Fields(lines[2])[0])
		require.Equal("y", strings.Fields(lines[2])[1])
	})

	t.Run("should exclude missing values pairwise unless listwise", func(t *testing.T) {
		require := require.New(t)
		gaps := writeFile(t, dir, "gaps.csv", "x,y\n1,2\n2,4\n3,\n4,8\n")
		require.NoError(execRootCmd([]string{"pspp-pipe", "correlations", gaps, "--vars", "x,y", "--out", out}, "1.0.0"))
		lines := strings.Split(strings.TrimSpace(readFile(t, out)), "\n")
		require.Equal("4", strings.Fields(lines[1])[4])

		require.NoError(execRootCmd([]string{"pspp-pipe", "correlations", gaps, "--vars", "x,y", "--listwise", "--out", out}, "1.0.0"))
		lines = strings.Split(strings.TrimSpace(readFile(t, out)), "\n")
		require.Equal("3", strings.Fields(lines[1])[4])
	})

	t.Run("should print descriptives", func(t *testing.T) {
		require := require.New(t)
		require.NoError(execRootCmd([]string{"pspp-pipe", "descriptives", data, "--vars", "x", "--out", out}, "1.0.0"))
		lines := strings.Split(strings.TrimSpace(readFile(t, out)), "\n")
		require.Len(lines, 3)
		fields := strings.Fields(lines[1])
		require.Equal([]string{"x", "5", "1", "5", "15", "3"}, fields[:6])
		require.Equal("1.58114", fields[6])
		require.Equal("Valid N (listwise)", strings.Join(strings.Fields(lines[2])[:3], " "))
	})

	t.Run("should print the signed-rank test", func(t *testing.T) {
		require := require.New(t)
		require.NoError(execRootCmd([]string{"pspp-pipe", "wilcoxon", data, "--pair", "x:y", "--exact", "--out", out}, "1.0.0"))
		lines := strings.Split(strings.TrimSpace(readFile(t, out)), "\n")
		require.Len(lines, 2)
		require.Contains(lines[0], "Exact Sig.")
		require.True(strings.HasPrefix(lines[1], "x - y"))
	})
}

func TestSplitAndWeight(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	data := writeFile(t, dir, "data.csv", "g,x,w\n1,2,1\n1,4,3\n2,6,1\n")
	out := filepath.Join(dir, "out.txt")

	require.NoError(execRootCmd([]string{"pspp-pipe", "descriptives", data, "--vars", "x",
		"--split", "g", "--weight", "w", "--out", out}, "1.0.0"))
	lines := strings.Split(strings.TrimSpace(readFile(t, out)), "\n")
	require.Len(lines, 8)
	require.Equal("g = 1", lines[0])
	require.Equal([]string{"x", "4", "2", "4", "14", "3.5"}, strings.Fields(lines[2])[:6])
	require.Equal("g = 2", lines[4])
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "data.csv", "x,s\n1,a\n")
	out := filepath.Join(dir, "out.csv")

	testCases := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"sort", filepath.Join(dir, "none.csv"), "--by", "x"}},
		{"bad sort key", []string{"sort", data, "--by", "x(Q)"}},
		{"no sort key", []string{"sort", data}},
		{"bad aggregate", []string{"aggregate", data, "--var", "S=SUM(s)"}},
		{"bad ties", []string{"rank", data, "--var", "x", "--ties", "RANDOM"}},
		{"bad delimiter", []string{"sort", data, "--by", "x", "--comma", ";;"}},
		{"string weight", []string{"sort", data, "--by", "x", "--weight", "s"}},
		{"unknown split", []string{"sort", data, "--by", "x", "--split", "q"}},
		{"bad pair", []string{"wilcoxon", data, "--pair", "x"}},
		{"bad settings", []string{"sort", data, "--by", "x", "--page-size", "16"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"pspp-pipe"}, tc.args...)
			require.Error(t, execRootCmd(append(args, "--out", out), "1.0.0"))
		})
	}
}

func TestSpill(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	var sb strings.Builder
	sb.WriteString("x\n")
	const n = 3000
	for i := n; i > 0; i-- {
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString("\n")
	}
	data := writeFile(t, dir, "data.csv", sb.String())
	out := filepath.Join(dir, "out.csv")

	require.NoError(execRootCmd([]string{"pspp-pipe", "sort", data, "--by", "x", "--tmpdir", dir,
		"--min-buffers", "8", "--max-buffers", "8", "--page-size", "512", "--metrics", "--out", out}, "1.0.0"))
	lines := strings.Split(strings.TrimSpace(readFile(t, out)), "\n")
	require.Len(lines, n+1)
	require.Equal("1", lines[1])
	require.Equal(strconv.Itoa(n), lines[n])
}
