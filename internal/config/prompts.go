package config

// Built-in generation templates, used when the config file does not override them.
// The %s placeholder receives the full transcript.

const defaultSummaryPrompt = `You are an expert meeting analyst. Analyze the following meeting transcript and create a comprehensive summary.

TRANSCRIPT:
%s

Provide a well-structured summary that includes:

1. **Meeting Overview**: Brief context and purpose
2. **Key Discussion Points**: Main topics covered (3-5 bullet points)
3. **Decisions Made**: Any concrete decisions or agreements reached
4. **Important Information**: Critical details, numbers, dates, or commitments mentioned
5. **Next Steps**: Any mentioned follow-up activities or future meetings

Write in clear, professional language suitable for stakeholders who weren't present. Keep it concise but comprehensive (aim for 150-300 words). Focus on actionable information and key takeaways rather than the conversation flow.`

const defaultActionsPrompt = `You are a project management expert. Analyze the following meeting transcript and extract all action items, tasks, and commitments.

TRANSCRIPT:
%s

Guidelines:

1. **Identify all actionable tasks**: commitments, assignments, deadlines, follow-up items
2. **Include responsible parties**: note who is responsible when mentioned
3. **Include deadlines**: note timelines or due dates when mentioned
4. **Be specific**: make each action item clear and actionable

Format each action item as a bullet point starting with "-", for example:
- [Task description] - Assigned to [Person] by [Date]

If no clear action items are found, respond with:
- No specific action items identified in this meeting

Only include items that represent concrete actions to be taken, not general discussion points.`

const standupSummaryPrompt = `Analyze this standup/daily scrum meeting transcript:

%s

Provide a summary covering:
1. **Team Updates**: What each team member accomplished
2. **Current Work**: What everyone is working on today
3. **Blockers**: Any impediments or challenges mentioned
4. **Sprint Progress**: Overall team progress toward goals

Keep it concise and focused on status updates.`

const standupActionsPrompt = `Extract action items from this standup meeting:

%s

Focus on:
- Tasks to unblock team members
- Follow-up items mentioned
- Issues that need resolution
- Commitments for the day/sprint

Format as bullet points with "-" prefix.`

const planningSummaryPrompt = `Analyze this planning meeting transcript:

%s

Summarize:
1. **Planning Scope**: What period/project was planned
2. **Goals & Objectives**: Main targets set
3. **Resource Allocation**: People, time, budget decisions
4. **Key Milestones**: Important dates and deliverables
5. **Risks & Dependencies**: Challenges identified

Focus on strategic decisions and commitments.`

const planningActionsPrompt = `Extract planning-related action items:

%s

Look for:
- Tasks to prepare for upcoming work
- Research or investigation items
- Resource acquisition needs
- Milestone preparation activities
- Risk mitigation actions

Format as bullet points with "-" prefix.`

const retroSummaryPrompt = `Analyze this retrospective meeting transcript:

%s

Summarize:
1. **What Went Well**: Positive outcomes and successes
2. **What Could Improve**: Areas for enhancement
3. **Action Items**: Concrete steps for improvement
4. **Team Insights**: Key learnings and observations

Focus on improvement opportunities and team dynamics.`

const retroActionsPrompt = `Extract improvement action items from this retrospective:

%s

Focus on:
- Process improvements to implement
- Tools or practices to try
- Training or skill development needs
- Communication enhancements

Format as bullet points with "-" prefix.`

func (p *PromptsConfig) applyDefaults() {
	fillPair(&p.General, defaultSummaryPrompt, defaultActionsPrompt)
	fillPair(&p.Standup, standupSummaryPrompt, standupActionsPrompt)
	fillPair(&p.Planning, planningSummaryPrompt, planningActionsPrompt)
	fillPair(&p.Retrospective, retroSummaryPrompt, retroActionsPrompt)
}

func fillPair(pair *PromptPair, summary, actions string) {
	if pair.Summary == "" {
		pair.Summary = summary
	}
	if pair.Actions == "" {
		pair.Actions = actions
	}
}

func (m *MessagesConfig) applyDefaults() {
	defaults := MessagesConfig{
		FileTooLarge:        "File size exceeds the %dMB limit. Please compress your file or use a shorter recording.",
		UnsupportedFormat:   "Invalid file format. Please upload a supported video, audio or text file.",
		EmptyFile:           "The uploaded file is empty.",
		ExtractionFailed:    "No audio could be extracted from the uploaded file. Please ensure it contains an audio track.",
		TranscriptionFailed: "Failed to transcribe audio. The audio quality may be too poor or the file may be corrupted.",
		EmptyTranscript:     "No meaningful content found in the transcript. Please provide a longer recording or text.",
		ModelUnavailable:    "AI service is temporarily unavailable. Please try again in a few moments.",
		ModelTimeout:        "The AI service took too long to respond. Please try again.",
		MalformedResponse:   "The AI service returned an unusable response. Please try again.",
		GenerationFailed:    "Failed to generate the summary document.",
		DeliveryFailed:      "Failed to send the message to Slack. Please check your webhook URL configuration.",
	}

	if m.FileTooLarge == "" {
		m.FileTooLarge = defaults.FileTooLarge
	}
	if m.UnsupportedFormat == "" {
		m.UnsupportedFormat = defaults.UnsupportedFormat
	}
	if m.EmptyFile == "" {
		m.EmptyFile = defaults.EmptyFile
	}
	if m.ExtractionFailed == "" {
		m.ExtractionFailed = defaults.ExtractionFailed
	}
	if m.TranscriptionFailed == "" {
		m.TranscriptionFailed = defaults.TranscriptionFailed
	}
	if m.EmptyTranscript == "" {
		m.EmptyTranscript = defaults.EmptyTranscript
	}
	if m.ModelUnavailable == "" {
		m.ModelUnavailable = defaults.ModelUnavailable
	}
	if m.ModelTimeout == "" {
		m.ModelTimeout = defaults.ModelTimeout
	}
	if m.MalformedResponse == "" {
		m.MalformedResponse = defaults.MalformedResponse
	}
	if m.GenerationFailed == "" {
		m.GenerationFailed = defaults.GenerationFailed
	}
	if m.DeliveryFailed == "" {
		m.DeliveryFailed = defaults.DeliveryFailed
	}
}
