package entities

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTicketName(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int64
		wantOk bool
	}{
		{name: "first ticket", input: "ticket-1", want: 1, wantOk: true},
		{name: "large number", input: "ticket-123456", want: 123456, wantOk: true},
		{name: "general chat", input: "general-chat", wantOk: false},
		{name: "zero", input: "ticket-0", wantOk: false},
		{name: "leading zero", input: "ticket-01", wantOk: false},
		{name: "suffix", input: "ticket-1-old", wantOk: false},
		{name: "prefix only", input: "ticket-", wantOk: false},
		{name: "upper case", input: "Ticket-1", wantOk: false},
		{name: "overflow", input: "ticket-99999999999999999999", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTicketName(tt.input)
			require.Equal(t, tt.wantOk, ok)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.wantOk, IsTicketChannelName(tt.input))
		})
	}
}

func TestTicket_Name(t *testing.T) {
	ticket := &Ticket{Number: 42}
	require.Equal(t, "ticket-42", ticket.Name())

	n, ok := ParseTicketName(ticket.Name())
	require.True(t, ok)
	require.Equal(t, int64(42), n)
}
