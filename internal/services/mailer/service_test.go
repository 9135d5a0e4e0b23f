package mailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/piewatch/internal/common"
	"github.com/bobmcallan/piewatch/internal/models"
)

type fakeSender struct {
	from string
	to   []string
	msg  []byte
	err  error
}

func (f *fakeSender) Send(_ context.Context, from string, to []string, msg []byte) error {
	f.from, f.to, f.msg = from, to, msg
	return f.err
}

func testConfig() common.MailConfig {
	return common.MailConfig{
		Host:     "smtp.example.com",
		Port:     587,
		From:     "digest@example.com",
		FromName: "piewatch",
		To:       "me@example.com, partner@example.com",
	}
}

func testReport() *models.Report {
	return &models.Report{
		Subject:        "[Daily] Pie digest 2024-05-03 18:00 UTC",
		Classification: models.ClassificationDaily,
		Markdown:       "# Pie digest\n\n## Recommendations\n\n1. Keep a buffer.\n",
	}
}

func TestDeliver_ComposesMultipartAlternative(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(testConfig(), common.NewSilentLogger(), WithSender(sender))
	svc.now = func() time.Time { return time.Date(2024, 5, 3, 18, 0, 0, 0, time.UTC) }

	require.NoError(t, svc.Deliver(context.Background(), testReport()))

	assert.Equal(t, "digest@example.com", sender.from)
	assert.Equal(t, []string{"me@example.com", "partner@example.com"}, sender.to)

	mr, err := mail.CreateReader(bytes.NewReader(sender.msg))
	require.NoError(t, err)

	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "[Daily] Pie digest 2024-05-03 18:00 UTC", subject)

	mediaType, _, err := mr.Header.ContentType()
	require.NoError(t, err)
	assert.Equal(t, "multipart/alternative", mediaType)

	var types []string
	var bodies []string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		ct := p.Header.Get("Content-Type")
		types = append(types, strings.SplitN(ct, ";", 2)[0])
		b, _ := io.ReadAll(p.Body)
		bodies = append(bodies, string(b))
	}

	assert.Equal(t, []string{"text/plain", "text/html"}, types)
	assert.Contains(t, bodies[0], "1. Keep a buffer.")
	assert.Contains(t, bodies[1], "<h2>Recommendations</h2>")
}

func TestDeliver_SenderErrorPropagates(t *testing.T) {
	svc := NewService(testConfig(), common.NewSilentLogger(), WithSender(&fakeSender{err: errors.New("connection refused")}))

	err := svc.Deliver(context.Background(), testReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDeliver_NotConfigured(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(common.MailConfig{}, common.NewSilentLogger(), WithSender(sender))

	assert.False(t, svc.IsConfigured())
	err := svc.Deliver(context.Background(), testReport())
	assert.True(t, errors.Is(err, common.ErrConfig))
	assert.Nil(t, sender.msg)
	assert.Equal(t, "email", svc.Name())
}
