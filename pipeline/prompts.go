package pipeline

import "github.com/sweetpotato0/deepresearch/prompt"

// Prompt template names registered with the manager.
const (
	promptPlanningQueries    = "planning_queries"
	promptReportPlanner      = "report_planner"
	promptQueryWriter        = "query_writer"
	promptSectionWriter      = "section_writer"
	promptSectionGrader      = "section_grader"
	promptFinalSectionWriter = "final_section_writer"
)

const planningQueriesTemplate = `You are performing research for a report on: {{.topic}}

The report will follow this organization:
{{.structure}}

Generate {{.count}} search queries that will help gather the information needed to plan the report sections. The queries should be broad enough to cover the whole topic while staying specific enough to return high quality sources.

Respond with JSON only, matching {"queries":[{"query":"...","rationale":"..."}]}.`

const reportPlannerTemplate = `You are planning a research report on: {{.topic}}

The report must follow this organization:
{{.structure}}
{{if .context}}
Use this search context to inform the section plan:
{{.context}}
{{end}}{{if .feedback}}
The previous plan was rejected with this feedback, address it:
{{.feedback}}
{{end}}
Produce the list of report sections. Each section needs a name, a one-to-two sentence description of what it covers, and a research flag: true when the section needs dedicated web research, false for sections distilled from the rest of the report such as the introduction and conclusion.

Respond with JSON only, matching {"sections":[{"name":"...","description":"...","research":true}]}.`

const queryWriterTemplate = `You are writing web search queries to research one section of a report.

Report topic: {{.topic}}
Section: {{.name}}
Section scope: {{.description}}

Generate {{.count}} queries that together cover the section scope. Diversify vocabulary and intent; include concrete entities, time ranges, or domain hints where they sharpen the search.

Respond with JSON only, matching {"queries":[{"query":"...","rationale":"..."}]}.`

const sectionWriterTemplate = `You are writing one section of a research report.

Report topic: {{.topic}}
Section: {{.name}}
Section scope: {{.description}}
{{if .content}}
Existing section content to improve:
{{.content}}
{{end}}
Source material:
{{.sources}}

Write the section in markdown. Ground every claim in the source material and cite sources with inline links in [title](url) form, using only URLs that appear in the source material. Start with a ## heading named after the section. Aim for 150-200 words of focused prose; use at most one list or table.`

const sectionGraderTemplate = `You are grading a report section against its scope.

Report topic: {{.topic}}
Section scope: {{.description}}

Section content:
{{.content}}

Grade "pass" when the content addresses the scope with specific, well-sourced information. Grade "fail" when it is vague, off-scope, or missing key information, and supply follow-up search queries that would close the gaps.

Respond with JSON only, matching {"grade":"pass","follow_up_queries":[{"query":"...","rationale":"..."}]}.`

const finalSectionWriterTemplate = `You are writing a section of a research report that does not require its own research.

Report topic: {{.topic}}
Section: {{.name}}
Section scope: {{.description}}

Completed research from the rest of the report:
{{.context}}

Write the section in markdown, distilling the completed research above. Start with a ## heading named after the section. For an introduction keep it under 100 words with no structural elements; for a conclusion aim for 100-120 words and include one list or table that distills the report body.`

func newPromptManager() *prompt.Manager {
	m := prompt.NewManager()
	m.MustRegisterString(promptPlanningQueries, planningQueriesTemplate)
	m.MustRegisterString(promptReportPlanner, reportPlannerTemplate)
	m.MustRegisterString(promptQueryWriter, queryWriterTemplate)
	m.MustRegisterString(promptSectionWriter, sectionWriterTemplate)
	m.MustRegisterString(promptSectionGrader, sectionGraderTemplate)
	m.MustRegisterString(promptFinalSectionWriter, finalSectionWriterTemplate)
	return m
}
