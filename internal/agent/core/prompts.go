package core

// chatSystemPrompt steers every conversational completion.
const chatSystemPrompt = `You are a helpful AI news agent. Your role is to:
1. Collect user preferences through conversation
2. Provide news and information based on user requests
3. Use available tools when appropriate to fetch and summarize news
4. Maintain a conversational and helpful tone
5. Remember and apply user preferences in your responses

Available tools:
- get_news_with_summary: Fetches news articles AND provides a comprehensive summary in one operation (HIGHLY RECOMMENDED for all news requests)
- fetch_news: Fetches the latest news articles on a given topic with full article content
- summarize_news: Creates comprehensive summaries of news articles using the full content

When users ask for news:
1. ALWAYS use get_news_with_summary first - it provides the best user experience with articles + summary
2. Only use fetch_news if specifically requested without summary
3. This tool fetches full articles and provides comprehensive summaries automatically
4. Present information in a clear, structured way
5. Apply user preferences for tone, format, and detail level

Always be helpful and engaging!`

// initialPreferencesGreeting opens a fresh conversation: it is returned
// verbatim for the first message of a session, before any model call.
const initialPreferencesGreeting = `Hello! I'm your AI news agent. Before we start, I'd like to understand your preferences to provide you with the best news experience.

Please answer these 5 questions:

1. **Preferred Tone of Voice**: What tone would you prefer? (e.g., formal, casual, enthusiastic, professional)
2. **Preferred Response Format**: How would you like me to present information? (e.g., bullet points, paragraphs, numbered lists)
3. **Language Preference**: What language would you prefer? (e.g., English, Spanish, French)
4. **Interaction Style**: How detailed would you like my responses? (e.g., concise, detailed, comprehensive)
5. **Preferred News Topics**: What topics interest you most? (e.g., technology, sports, politics, business, entertainment)

Please share your preferences one by one, and I'll note them down!`

// toolLoopApology is the reply when the model keeps requesting tools past
// the round cap and never produces a final answer.
const toolLoopApology = "I'm sorry, I wasn't able to finish putting that together. The news tools kept running without reaching an answer. Please try asking again, perhaps with a more specific topic."

// llmFailureApology is the reply when the completion service itself fails.
const llmFailureApology = "I'm sorry, I'm having trouble reaching my language service right now. Please try again in a moment."
