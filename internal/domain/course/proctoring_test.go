package course

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startedCourse(t *testing.T) *Course {
	t.Helper()
	start := time.Now().Add(-30 * 24 * time.Hour)
	c, err := NewCourse(MustParseKey("course-v1:edX+DemoX+Demo_2025"), "Started Course", &start)
	require.NoError(t, err)
	return c
}

func futureCourse(t *testing.T) *Course {
	t.Helper()
	start := time.Now().Add(30 * 24 * time.Hour)
	c, err := NewCourse(MustParseKey("course-v1:edX+DemoX+Demo_2027"), "Future Course", &start)
	require.NoError(t, err)
	return c
}

func TestValidateProctoringProvider(t *testing.T) {
	vctx := testContext()

	t.Run("change allowed before course start", func(t *testing.T) {
		errs := ValidateProctoringProvider("software_secure", futureCourse(t), vctx)
		assert.Empty(t, errs)
	})

	t.Run("change rejected after course start", func(t *testing.T) {
		c := startedCourse(t)
		c.SetSetting(ProctoringProviderKey, "proctortrack")

		errs := ValidateProctoringProvider("software_secure", c, vctx)
		require.Len(t, errs, 1)
		assert.Equal(t, ProctoringProviderKey, errs[0].Key)
		assert.Contains(t, errs[0].Message, "cannot be modified after a course has started")
	})

	t.Run("same value accepted after course start", func(t *testing.T) {
		c := startedCourse(t)
		c.SetSetting(ProctoringProviderKey, "proctortrack")

		errs := ValidateProctoringProvider("proctortrack", c, vctx)
		assert.Empty(t, errs)
	})

	t.Run("unknown provider lists the valid choices", func(t *testing.T) {
		errs := ValidateProctoringProvider("nonexistent", futureCourse(t), vctx)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Message, "nonexistent")
		assert.Contains(t, errs[0].Message, "proctortrack")
		assert.Contains(t, errs[0].Message, "software_secure")
	})

	t.Run("empty provider accepted", func(t *testing.T) {
		errs := ValidateProctoringProvider("", futureCourse(t), vctx)
		assert.Empty(t, errs)
	})

	t.Run("no start date means not started", func(t *testing.T) {
		errs := ValidateProctoringProvider("software_secure", testCourse(t), vctx)
		assert.Empty(t, errs)
	})
}

func TestSchema_ValidateProctoringSettings(t *testing.T) {
	schema := DefaultSchema()
	providers := testContext().Providers

	t.Run("nothing reported when proctoring disabled", func(t *testing.T) {
		c := testCourse(t)
		c.SetSetting(ProctoringProviderKey, "bogus")
		assert.Empty(t, schema.ValidateProctoringSettings(c, providers))
	})

	t.Run("unknown stored provider reported", func(t *testing.T) {
		c := testCourse(t)
		c.SetSetting(EnableProctoredExamsKey, true)
		c.SetSetting(ProctoringProviderKey, "bogus")

		errs := schema.ValidateProctoringSettings(c, providers)
		require.Len(t, errs, 1)
		assert.Equal(t, ProctoringProviderKey, errs[0].Key)
		assert.Equal(t, "Proctoring Provider", errs[0].Model)
	})

	t.Run("escalation email required by provider", func(t *testing.T) {
		c := testCourse(t)
		c.SetSetting(EnableProctoredExamsKey, true)
		c.SetSetting(ProctoringProviderKey, "proctortrack")

		errs := schema.ValidateProctoringSettings(c, providers)
		require.Len(t, errs, 1)
		assert.Equal(t, ProctoringEscalationEmailKey, errs[0].Key)
		assert.Contains(t, errs[0].Message, "escalation email")
	})

	t.Run("satisfied escalation email passes", func(t *testing.T) {
		c := testCourse(t)
		c.SetSetting(EnableProctoredExamsKey, true)
		c.SetSetting(ProctoringProviderKey, "proctortrack")
		c.SetSetting(ProctoringEscalationEmailKey, "escalation@example.com")

		assert.Empty(t, schema.ValidateProctoringSettings(c, providers))
	})

	t.Run("provider without email requirement passes", func(t *testing.T) {
		c := testCourse(t)
		c.SetSetting(EnableProctoredExamsKey, true)
		c.SetSetting(ProctoringProviderKey, "software_secure")

		assert.Empty(t, schema.ValidateProctoringSettings(c, providers))
	})
}
