package extract

import "testing"

func TestStudentName(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name         string
		body         string
		studentEmail string
		want         string
	}{
		{
			name:         "name directly before anchor",
			body:         "Hi team,\n\nPlease set up an Audemic Scholar licence for Amal Ahmed (amal.ahmed2024@gmail.com), 3 year licence.\n\nThanks,\nLauren",
			studentEmail: "amal.ahmed2024@gmail.com",
			want:         "Amal Ahmed",
		},
		{
			name:         "stacked trailing labels stripped",
			body:         "Audemic Scholar x1\nSegilola Christianah Kikelomo Faleru Student Email segilola.faleru@student.manchester.ac.uk\nLicence period: 1 year",
			studentEmail: "segilola.faleru@student.manchester.ac.uk",
			want:         "Segilola Christianah Kikelomo Faleru",
		},
		{
			name:         "blacklisted staff name skipped",
			body:         "Kind regards,\nJoshua Mitcham\n\nStudent details: Priya Patel priya.patel@yahoo.co.uk",
			studentEmail: "priya.patel@yahoo.co.uk",
			want:         "Priya Patel",
		},
		{
			name:         "all caps name accepted",
			body:         "please provision a licence for MARIA GONZALEZ HERNANDEZ maria.gh@gmail.com as soon as possible",
			studentEmail: "maria.gh@gmail.com",
			want:         "MARIA GONZALEZ HERNANDEZ",
		},
		{
			name:         "anchor absent falls back to personal address position",
			body:         "New order for the student below.\n\nJake O'Brien\njake.obrien99@gmail.com\n\nRegards",
			studentEmail: "unrelated@nowhere.example",
			want:         "Jake O'Brien",
		},
		{
			name:         "closest candidate to anchor wins",
			body:         "Contact Sarah Hughes with questions.\nStudent: Leon Baker leon.baker@outlook.com",
			studentEmail: "leon.baker@outlook.com",
			want:         "Leon Baker",
		},
		{
			// U+0130 lowers to fewer bytes; a lowered-copy anchor index
			// would end the window inside the name.
			name:         "window aligned past case-length-changing runes",
			body:         "İİ Koordinatörlüğü order\nAmal Ahmed\namal-ahmed@hotmail.co.uk",
			studentEmail: "amal-ahmed@hotmail.co.uk",
			want:         "Amal Ahmed",
		},
		{
			name:         "empty anchor yields nothing",
			body:         "Please provision for Amal Ahmed",
			studentEmail: "",
			want:         "",
		},
		{
			name:         "nothing name-shaped",
			body:         "licence request for the student at tom123@gmail.com, details to follow",
			studentEmail: "tom123@gmail.com",
			want:         "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StudentName(tt.body, tt.studentEmail, rules); got != tt.want {
				t.Errorf("StudentName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStudentNameGlobalFallback(t *testing.T) {
	rules := DefaultRules()
	// Anchor is absent and no personal-looking address exists, so the
	// whole-body search applies, skipping matches at the very start.
	body := "order confirmation attached below for our student.\nStudent details listed here: Tom Riddle tom@university-portal.example"
	if got := StudentName(body, "missing@nowhere.example", rules); got != "Tom Riddle" {
		t.Errorf("StudentName() = %q, want %q", got, "Tom Riddle")
	}
}

func TestStudentNameFromLineTable(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name           string
		attachmentText string
		studentEmail   string
		want           string
	}{
		{
			name:           "name on line above anchor with row number",
			attachmentText: "Qty Description\n2Elise Blake\nelise.blake@durham.ac.uk\nTotal 1200.00",
			studentEmail:   "elise.blake@durham.ac.uk",
			want:           "Elise Blake",
		},
		{
			name:           "anchor on first line has no line above",
			attachmentText: "elise.blake@durham.ac.uk\nElise Blake",
			studentEmail:   "elise.blake@durham.ac.uk",
			want:           "",
		},
		{
			name:           "line above is not name shaped",
			attachmentText: "Subtotal\nelise.blake@durham.ac.uk",
			studentEmail:   "elise.blake@durham.ac.uk",
			want:           "",
		},
		{
			name:           "blacklisted line above rejected",
			attachmentText: "Student Name\nelise.blake@durham.ac.uk",
			studentEmail:   "elise.blake@durham.ac.uk",
			want:           "",
		},
		{
			name:           "anchor missing from attachment",
			attachmentText: "Elise Blake\nsomeone.else@durham.ac.uk",
			studentEmail:   "elise.blake@durham.ac.uk",
			want:           "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StudentNameFromLineTable(tt.attachmentText, tt.studentEmail, rules); got != tt.want {
				t.Errorf("StudentNameFromLineTable() = %q, want %q", got, tt.want)
			}
		})
	}
}
