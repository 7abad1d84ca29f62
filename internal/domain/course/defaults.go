package course

// DefaultSchema builds the standard advanced-settings schema: every
// author-editable field with its display metadata, default value and
// validator. The caller owns the returned schema; nothing here is global.
func DefaultSchema() *Schema {
	s := NewSchema()

	s.MustRegister(FieldSpec{
		Key:         "advanced_modules",
		DisplayName: "Advanced Module List",
		Help:        "Enter the names of the advanced modules to use in your course.",
		Kind:        KindList,
		Default:     []any{},
	})
	s.MustRegister(FieldSpec{
		Key:         "allow_anonymous",
		DisplayName: "Allow Anonymous Discussion Posts",
		Help:        "Enter true or false. If true, students can create discussion posts that are anonymous to all users.",
		Kind:        KindBool,
		Default:     true,
	})
	s.MustRegister(FieldSpec{
		Key:         "allow_anonymous_to_peers",
		DisplayName: "Allow Anonymous Discussion Posts to Peers",
		Help:        "Enter true or false. If true, students can create discussion posts that are anonymous to other students but not to staff.",
		Kind:        KindBool,
		Default:     false,
	})
	s.MustRegister(FieldSpec{
		Key:         "allow_public_wiki_access",
		DisplayName: "Allow Public Wiki Access",
		Help:        "Enter true or false. If true, edX users can view the course wiki even if they're not enrolled in the course.",
		Kind:        KindBool,
		Default:     false,
	})
	s.MustRegister(FieldSpec{
		Key:         "cert_html_view_enabled",
		DisplayName: "Certificate Web/HTML View Enabled",
		Help:        "If true, certificates are rendered as web views instead of PDFs.",
		Kind:        KindBool,
		Default:     true,
	})
	s.MustRegister(FieldSpec{
		Key:         "days_early_for_beta",
		DisplayName: "Days Early for Beta Users",
		Help:        "Enter the number of days before the course start date that beta users can access the course.",
		Kind:        KindInt,
		Default:     nil,
		Nullable:    true,
	})
	s.MustRegister(FieldSpec{
		Key:         "display_coursenumber",
		DisplayName: "Course Number Display String",
		Help:        "Enter the course number that you want to appear in the course.",
		Kind:        KindString,
		Default:     "",
	})
	s.MustRegister(FieldSpec{
		Key:         "display_organization",
		DisplayName: "Course Organization Display String",
		Help:        "Enter the organization that you want to appear in the course.",
		Kind:        KindString,
		Default:     "",
	})
	s.MustRegister(FieldSpec{
		Key:         "due_date_display_format",
		DisplayName: "Due Date Display Format",
		Help:        "Enter the format for due dates, for example DATE_TIME or %b %d %Y.",
		Kind:        KindString,
		Default:     "",
	})
	s.MustRegister(FieldSpec{
		Key:         "invitation_only",
		DisplayName: "Invitation Only",
		Help:        "Whether to restrict enrollment to invitation by the course staff.",
		Kind:        KindBool,
		Default:     false,
	})
	s.MustRegister(FieldSpec{
		Key:         "max_student_enrollments_allowed",
		DisplayName: "Course Enrollment Cap",
		Help:        "Enter the maximum number of students that can enroll in the course. Leave empty for no cap.",
		Kind:        KindInt,
		Default:     nil,
		Nullable:    true,
	})
	s.MustRegister(FieldSpec{
		Key:                    "mobile_available",
		DisplayName:            "Mobile Course Available",
		Help:                   "Enter true or false. If true, the course is available to mobile devices.",
		Kind:                   KindBool,
		Default:                false,
		HideOnEnabledPublisher: true,
	})
	s.MustRegister(FieldSpec{
		Key:         "show_calculator",
		DisplayName: "Show Calculator",
		Help:        "Enter true or false. If true, the calculator is visible in the course.",
		Kind:        KindBool,
		Default:     false,
	})
	s.MustRegister(FieldSpec{
		Key:         "edxnotes",
		DisplayName: "Enable Student Notes",
		Help:        "Enter true or false. If true, students can use the Student Notes feature.",
		Kind:        KindBool,
		Default:     false,
	})
	s.MustRegister(FieldSpec{
		Key:         TeamsConfigKey,
		DisplayName: "Teams Configuration",
		Help:        "Configure team sets, limit team sizes, and set visibility settings using JSON.",
		Kind:        KindMap,
		Default:     map[string]any{},
		Validate:    ValidateTeamsConfiguration,
	})
	s.MustRegister(FieldSpec{
		Key:         EnableTimedExamsKey,
		DisplayName: "Enable Timed Exams",
		Help:        "Enter true or false. If true, timed exams can be enabled in your course.",
		Kind:        KindBool,
		Default:     true,
	})
	s.MustRegister(FieldSpec{
		Key:         EnableProctoredExamsKey,
		DisplayName: "Enable Proctored Exams",
		Help:        "Enter true or false. If true, proctored exams are enabled in your course.",
		Kind:        KindBool,
		Default:     false,
	})
	s.MustRegister(FieldSpec{
		Key:         AllowProctoringOptOutKey,
		DisplayName: "Allow Opting Out of Proctored Exams",
		Help:        "Enter true or false. If true, learners can choose to take proctored exams without proctoring.",
		Kind:        KindBool,
		Default:     false,
	})
	s.MustRegister(FieldSpec{
		Key:         ProctoringProviderKey,
		DisplayName: "Proctoring Provider",
		Help:        "Enter the proctoring provider you want to use for this course run.",
		Kind:        KindString,
		Default:     "",
		Validate:    ValidateProctoringProvider,
	})
	s.MustRegister(FieldSpec{
		Key:         ProctoringEscalationEmailKey,
		DisplayName: "Proctortrack Exam Escalation Contact",
		Help:        "Required if Proctortrack is the proctoring provider. Enter an email address to be contacted by the support team.",
		Kind:        KindString,
		Default:     "",
		Nullable:    true,
	})
	s.MustRegister(FieldSpec{
		Key:         CreateZendeskTicketsKey,
		DisplayName: "Create Zendesk Tickets for Suspicious Proctored Exam Attempts",
		Help:        "Enter true or false. If true, a Zendesk ticket is created for suspicious attempts.",
		Kind:        KindBool,
		Default:     true,
		StaffOnly:   true,
	})

	return s
}
