/*
Package agent assembles the conversational decision workflow: a context
check, a reference lookup, and either a streamed generated answer or a
fixed refusal.

The topology is small and acyclic:

	check_context --(has_context)--> retrieve_documents
	check_context --(no_context)--> cannot_answer
	retrieve_documents --(has_documents)--> generate_answer
	retrieve_documents --(no_documents)--> cannot_answer
	generate_answer --> END

Exactly one terminal node is reached per execution. Both model-calling
nodes record a usage report through the aggregator; the retrieval check and
the refusal are free.
*/
package agent
