package metrics

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutMetricData struct {
	inputs []*cloudwatch.PutMetricDataInput
}

func (f *fakePutMetricData) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestNewClientDisabledOutsideProduction(t *testing.T) {
	c, err := NewClient(context.Background(), "development")
	require.NoError(t, err)
	assert.False(t, c.enabled)

	// No-ops when disabled
	c.RecordSubmission(3, true, false)
	c.RecordGenreToggle(true)
	c.RecordAPIRequest("/", 200, 0)
	assert.NoError(t, c.putMetric(context.Background(), "X", 1, types.StandardUnitCount, nil))
}

func TestPutMetricSendsDatum(t *testing.T) {
	fake := &fakePutMetricData{}
	c := &Client{client: fake, enabled: true, environment: "production"}

	err := c.putMetric(context.Background(), "PreferenceSubmissions", 1, types.StandardUnitCount,
		[]types.Dimension{c.environmentDimension()})
	require.NoError(t, err)

	require.Len(t, fake.inputs, 1)
	in := fake.inputs[0]
	assert.Equal(t, namespace, aws.ToString(in.Namespace))
	require.Len(t, in.MetricData, 1)
	assert.Equal(t, "PreferenceSubmissions", aws.ToString(in.MetricData[0].MetricName))
	assert.Equal(t, 1.0, aws.ToFloat64(in.MetricData[0].Value))
	assert.Equal(t, "production", aws.ToString(in.MetricData[0].Dimensions[0].Value))
}

func TestBoolToString(t *testing.T) {
	assert.Equal(t, "true", boolToString(true))
	assert.Equal(t, "false", boolToString(false))
}
