package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripTags(t *testing.T) {
	require.Equal(t, "Aprovado\nA Favor: PS, BE",
		StripTags("Aprovado<BR>A Favor: <I>PS</I>, <I>BE</I>"))
	require.Equal(t, "linha um\nlinha dois", StripTags("linha um<br/>linha dois"))
	require.Equal(t, "Abstenção: PSD", StripTags("Absten&ccedil;&atilde;o:&nbsp;PSD"))
	require.Equal(t, "", StripTags(""))
	require.Equal(t, "sem tags", StripTags("sem tags"))
}
