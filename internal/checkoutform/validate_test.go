package checkoutform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	valid := Input{Description: "Lampada", Amount: "25,00", Phone: "333 123 4567"}

	tests := []struct {
		name   string
		mutate func(*Input)
		want   []string
	}{
		{name: "valid", mutate: func(*Input) {}},
		{name: "blank description", mutate: func(in *Input) { in.Description = "  " }, want: []string{"descrizione"}},
		{name: "missing amount", mutate: func(in *Input) { in.Amount = "" }, want: []string{"importo"}},
		{name: "zero amount", mutate: func(in *Input) { in.Amount = "0" }, want: []string{"importo"}},
		{name: "text amount", mutate: func(in *Input) { in.Amount = "tanti" }, want: []string{"importo"}},
		{name: "missing phone", mutate: func(in *Input) { in.Phone = "" }, want: []string{"telefono"}},
		{name: "short phone", mutate: func(in *Input) { in.Phone = "123" }, want: []string{"telefono"}},
		{name: "bad email", mutate: func(in *Input) { in.Email = "mario@" }, want: []string{"email"}},
		{name: "good email", mutate: func(in *Input) { in.Email = "mario@example.com" }},
		{name: "everything wrong", mutate: func(in *Input) { *in = Input{} }, want: []string{"descrizione", "importo", "telefono"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			fe := Validate(in)
			if len(tt.want) == 0 {
				assert.Nil(t, fe)
				return
			}
			assert.Len(t, fe, len(tt.want))
			for _, k := range tt.want {
				assert.Contains(t, fe, k)
			}
			assert.NotEmpty(t, fe.Error())
		})
	}
}

func TestParseChannel(t *testing.T) {
	for in, want := range map[string]Channel{"": ChannelWhatsApp, "WA": ChannelWhatsApp, "whatsapp": ChannelWhatsApp, "sms": ChannelSMS} {
		got, err := ParseChannel(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseChannel("telegram")
	assert.Error(t, err)
}
