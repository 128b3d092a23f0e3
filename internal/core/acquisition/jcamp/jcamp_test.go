package jcamp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAcqus = `##TITLE= Parameter file, TOPSPIN		Version 3.2
##JCAMPDX= 5.0
##DATATYPE= Parameter Values
##NPOINTS= 16	$$ modified later
##ORIGIN= Bruker BioSpin GmbH
##OWNER= nmrsu
$$ 2014-03-03 11:10:29.000 +0100  nmrsu@spect
$$ /opt/topspin3.2/data/nmrsu/nmr/sample/1/acqus
##$AQ_mod= 3
##$BYTORDA= 0
##$D= (0..63)
0 1 0.03 0 0 0 0 0 0 0 0 0 0 0.000003 0 0 0.0002 0 0 0 0 0 0 0 0 0 0 
0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0
##$NS= 16
##$PULPROG= <zg30>
##$SFO1= 600.133201794
##$SPNAM= (0..3)
<gauss> <Sinc1.1000> <> 
<Q3.1000>
##$SW_h= 12019.2307692308
##$TD= 65536.0
##$PROBHD= <5 mm PABBO BB/
 19F-1H/D Z-GRD Z108618/0035>
##END=
##$AFTER= 1
`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(sampleAcqus))
	require.NoError(t, err)

	title, err := doc.String("TITLE")
	require.NoError(t, err)
	assert.Equal(t, "Parameter file, TOPSPIN\t\tVersion 3.2", title)

	npoints, err := doc.Int("NPOINTS")
	require.NoError(t, err)
	assert.Equal(t, 16, npoints, "行尾 $$ 注释应被去掉")

	ns, err := doc.Int("NS")
	require.NoError(t, err)
	assert.Equal(t, 16, ns)

	td, err := doc.Int("TD")
	require.NoError(t, err)
	assert.Equal(t, 65536, td)

	sfo1, err := doc.Float("SFO1")
	require.NoError(t, err)
	assert.InDelta(t, 600.133201794, sfo1, 1e-9)

	pulprog, err := doc.String("PULPROG")
	require.NoError(t, err)
	assert.Equal(t, "zg30", pulprog)

	probe, err := doc.String("PROBHD")
	require.NoError(t, err)
	assert.Equal(t, "5 mm PABBO BB/\n 19F-1H/D Z-GRD Z108618/0035", probe)

	v, ok := doc.Lookup("AQ_mod")
	require.True(t, ok)
	assert.True(t, v.Private)
	assert.False(t, doc.Has("AFTER"), "##END= 之后的内容应被忽略")
	assert.Equal(t, "TITLE", doc.Labels()[0])
}

func TestArrays(t *testing.T) {
	doc, err := Parse([]byte(sampleAcqus))
	require.NoError(t, err)

	d, err := doc.Strings("D")
	require.NoError(t, err)
	assert.Len(t, d, 64)

	d1, err := doc.FloatAt("D", 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, d1)

	spnam, err := doc.Strings("SPNAM")
	require.NoError(t, err)
	assert.Equal(t, []string{"gauss", "Sinc1.1000", "", "Q3.1000"}, spnam)

	s, err := doc.StringAt("SPNAM", 1)
	require.NoError(t, err)
	assert.Equal(t, "Sinc1.1000", s)

	_, err = doc.FloatAt("D", 64)
	assert.ErrorIs(t, err, ErrNotFound)

	var syntaxErr *SyntaxError
	_, err = doc.Float("D")
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, "D", syntaxErr.Label)

	_, err = doc.FloatAt("NS", 0)
	assert.ErrorAs(t, err, &syntaxErr)
}

func TestLookupErrors(t *testing.T) {
	doc, err := Parse([]byte("##$NUC1= <1H>\n##$RG= abc\n##$TE= 298.1\n##END=\n"))
	require.NoError(t, err)

	_, err = doc.String("MISSING")
	assert.ErrorIs(t, err, ErrNotFound)

	var syntaxErr *SyntaxError
	_, err = doc.Float("RG")
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 2, syntaxErr.Line)

	_, err = doc.Int("TE")
	assert.ErrorAs(t, err, &syntaxErr, "非整数")

	_, err = doc.Strings("NUC1")
	assert.ErrorAs(t, err, &syntaxErr)
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"missing equals", "##TITLE= x\n##$TD 1024\n", 2},
		{"empty label", "##= 1\n", 1},
		{"content before record", "hello\n##$TD= 1\n", 1},
		{"short array", "##$P= (0..3)\n1 2 3\n##$TD= 1\n", 1},
		{"short array at eof", "##$P= (0..3)\n1 2\n", 1},
		{"long array", "##$P= (0..1)\n1 2 3\n", 2},
		{"unterminated array string", "##$SPNAM= (0..1)\n<gauss> <sinc\n", 2},
		{"unterminated string", "##$PROBHD= <5 mm\nmore\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr), "err = %v", err)
			assert.Equal(t, tt.line, syntaxErr.Line)
		})
	}
}

func TestCRLFAndInlineArray(t *testing.T) {
	doc, err := Parse([]byte("##$P= (0..2) 1.5 2.5\r\n3.5\r\n##$NS= 8\r\n##END=\r\n"))
	require.NoError(t, err)

	p2, err := doc.FloatAt("P", 2)
	require.NoError(t, err)
	assert.Equal(t, 3.5, p2)

	ns, err := doc.Int("NS")
	require.NoError(t, err)
	assert.Equal(t, 8, ns)
}
