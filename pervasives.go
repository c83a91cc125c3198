package golp

// pervasives is the program implicitly prepended to every parse: the
// fixity declarations of the standard operators and a small list library.
// Larger precedence numbers bind tighter.
const pervasives = `
infixr :- 0.
infixr ; 100.
infixr , 110.
infix  -> 115.
infixr => 120.
infix  =  130.
infix  is 130.
infix  <  130.
infix  =< 130.
infix  >  130.
infix  >= 130.
infixr :: 140.
infixl +  150.
infixl -  150.
infixl *  160.
infixl /  160.
infixl mod 160.

append [] L L.
append (X :: L1) L2 (X :: L3) :- append L1 L2 L3.

member X (X :: _).
member X (_ :: L) :- member X L.

length [] 0.
length (_ :: L) N :- length L M, N is M + 1.
`
