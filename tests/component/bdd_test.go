//go:build component
// +build component

package component

func (s *ComponentTestSuite) TestMatchAndChat() {
	given, when, then := s.gherkin()

	given().
		anAcceptedCollaborator()

	then().
		bothSeeTheProjectInTheirList().
		theProjectIsNoLongerACandidate().
		aSecondSwipeIsRejected().
		theCollaboratorHasTheBacklogUnread()

	when().
		bothAreConnected().
		theOwnerSendsAChatMessage()

	then().
		bothReceiveTheChatMessage().
		theHistoryIsPaged()

	when().
		theCollaboratorReadsTheChat()

	then().
		theCollaboratorHasNothingUnread()
}

func (s *ComponentTestSuite) TestDeleteProject() {
	given, when, then := s.gherkin()

	given().
		anAcceptedCollaborator().
		bothAreConnected()

	when().
		theOwnerDeletesTheProject()

	then().
		theDeleteIsBroadcast().
		theCollaboratorLostAccess()
}
