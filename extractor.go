package main

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Selectors for the study-program detail pages on fagskolen-viken.no. The
// long Drupal field class chains are copied verbatim from the rendered pages;
// shortening them risks matching unrelated fields.
const (
	selTitle       = ".study-detail__title"
	selDescription = ".study-detail--intro__text"
	selCategory    = ".study-detail--intro__tag"
	selCampus      = ".study-detail--campus__select"
	selCredits     = "div.field.field--name-field-study-points.field--type-integer.field--label-hidden.field__item"
	selLanguage    = "div.field.field--name-field-language.field--type-entity-reference.field--label-hidden.field__item"
	selLevel       = "div.field.field--name-field-level.field--type-entity-reference.field--label-hidden.field__item"
	selCareer      = "div.field--name-field-skills-jobs"
	selContact     = ".study-detail--questions"
	selOtherInfo   = ".study-detail--courses__body.other-info"
	selCoursesBody = ".study-detail--courses__body"
	selCourseLink  = "a.study-course__link"
)

const (
	headingWhyChoose = "Hvorfor velge dette studiet?"
	headingWhatLearn = "Hva lærer du?"

	// Advisory returned when the police-certificate heuristic fires.
	policeAdvisory = "Sjekk opptakskrav"
	// Substring searched for across the whole document text. Coarse: an
	// unrelated mention of the word also triggers the advisory.
	policeNeedle = "politiattest"
)

// textContent collects the trimmed text of every text node under the
// selection and joins the non-empty pieces with sep. Unlike Selection.Text it
// keeps word boundaries between separate nodes.
func textContent(sel *goquery.Selection, sep string) string {
	var parts []string
	for _, node := range sel.Nodes {
		collectText(node, &parts)
	}
	return strings.Join(parts, sep)
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// selectText extracts the text of the first match of selector, or nil when
// the structural anchor is absent. Absence is normal, not an error.
func selectText(sel *goquery.Selection, selector, sep string) *string {
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return nil
	}
	return strPtr(textContent(found, sep))
}

// ExtractProgram pulls the program-level fields out of a parsed study page.
// Every field is extracted independently: a missing anchor yields nil for
// that field only, never a failure for the whole record.
func ExtractProgram(doc *goquery.Document) Program {
	program := Program{
		StudyLocation: map[int]string{},
		StudyType:     map[int]string{},
	}

	program.Title = selectText(doc.Selection, selTitle, " | ")
	program.Description = selectText(doc.Selection, selDescription, " | ")
	program.StudyCategory = selectText(doc.Selection, selCategory, " ")

	if campus := selectText(doc.Selection, selCampus, " | "); campus != nil {
		program.StudyLocation, program.StudyType = MatchLocationAndStudyType(*campus)
	}

	if credits := selectText(doc.Selection, selCredits, " | "); credits != nil {
		program.Credits = ParseCredits(*credits)
	}

	program.Language = selectText(doc.Selection, selLanguage, " | ")
	program.Level = selectText(doc.Selection, selLevel, " | ")

	program.WhyChoose = extractSectionText(doc, headingWhyChoose)

	program.WhatLearn = extractSectionText(doc, headingWhatLearn)
	if program.WhatLearn == nil {
		// Fallback: some pages carry the content in the courses overview
		// container instead of under a heading.
		program.WhatLearn = selectText(doc.Selection, selCoursesBody, " | ")
	}

	if teaching := selectText(doc.Selection, selOtherInfo, " "); teaching != nil {
		if strings.Contains(strings.ToLower(*teaching), "nettbasert deltid") {
			program.TeachingFormat = strPtr("Nettbasert deltid med fysiske samlinger")
		}
		program.MandatoryAttendance = teaching
	}

	program.CareerOpportunities = selectText(doc.Selection, selCareer, " ")
	program.ContactInfo = selectText(doc.Selection, selContact, " | ")

	if href, ok := doc.Find("link[rel='canonical']").Attr("href"); ok {
		program.StudyURL = strPtr(href)
	}

	if strings.Contains(strings.ToLower(textContent(doc.Selection, " | ")), policeNeedle) {
		program.PoliceCertificate = strPtr(policeAdvisory)
	}

	return program
}

// extractSectionText finds the h2/h3 whose exact text equals heading and
// joins the text of all following paragraphs until the next h2/h3 with
// newlines. No heading, or a heading with no paragraphs, yields nil.
func extractSectionText(doc *goquery.Document, heading string) *string {
	var parts []string
	inSection := false

	doc.Find("h2, h3, p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		switch goquery.NodeName(sel) {
		case "h2", "h3":
			if inSection {
				return false
			}
			if textContent(sel, " | ") == heading {
				inSection = true
			}
		case "p":
			if inSection {
				if text := textContent(sel, " | "); text != "" {
					parts = append(parts, text)
				}
			}
		}
		return true
	})

	if len(parts) == 0 {
		return nil
	}
	return strPtr(strings.Join(parts, "\n"))
}

// ExtractCourses returns one course stub per course link on a program page.
// The stubs lack the external course code until enrichment fetches each
// course's own page.
func ExtractCourses(doc *goquery.Document) []Course {
	var courses []Course

	doc.Find(selCourseLink).Each(func(_ int, link *goquery.Selection) {
		course := Course{
			Title: selectText(link, ".study-course__title", " | "),
		}
		if points := selectText(link, ".study-course__points", " | "); points != nil {
			course.Credits = ParseCredits(*points)
		}
		if href, ok := link.Attr("href"); ok {
			course.URL = strPtr(href)
		}
		courses = append(courses, course)
	})

	return courses
}

// EnrichCourseFromPage fills the external course code, study level and
// learning outcomes from the course's own page. Facts rows pair a label with
// a value; the label text decides which field the value lands in. Missing
// anchors leave the corresponding fields nil.
func EnrichCourseFromPage(doc *goquery.Document, course *Course) {
	// "containter" is the site's own typo, preserved here on purpose.
	doc.Find("div#facts-containter li").Each(func(_ int, item *goquery.Selection) {
		label := selectText(item, ".facts-label", " | ")
		value := selectText(item, ".facts-item", " | ")
		if label == nil || value == nil {
			return
		}
		switch {
		case strings.Contains(*label, "Emnekode"):
			course.ID = value
		case strings.Contains(*label, "Studienivå"):
			course.StudyLevel = value
		}
	})

	course.LearningOutcomes.Knowledge = selectText(doc.Selection, "div.field-learning-outcome-knowledge.label-above", " ")
	course.LearningOutcomes.Skills = selectText(doc.Selection, "div.field-learning-outcome-skills.label-above", " ")
	course.LearningOutcomes.Competence = selectText(doc.Selection, "div.field-learning-outcome-reflec.label-above", " ")
}
